package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager signs and parses session tokens.
type TokenManager interface {
	Issue(accountID uuid.UUID) (Session, error)
	Parse(token string) (uuid.UUID, error)
}

// Session is a signed, time-bounded credential for an account.
// It is never persisted.
type Session struct {
	Token     string
	AccountID uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
