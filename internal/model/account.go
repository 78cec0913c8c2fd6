package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProviderGoogle is the provider name used for Google sign-in links.
const ProviderGoogle = "google"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// AccountStore defines persistence operations for accounts and their provider links.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (Account, error)
	GetByProviderLink(ctx context.Context, provider, providerUserID string) (Account, error)
	// Create stores the account and all of its links in one transaction.
	// It returns ErrConflict when the identifier or any link is already taken.
	Create(ctx context.Context, account Account) (Account, error)
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// Account is an authenticated principal.
type Account struct {
	ID           uuid.UUID
	Identifier   string
	DisplayName  string
	PasswordHash *string
	Links        []ProviderLink
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account supports local login.
func (a Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

// LinkFor returns the account's link for provider, if any.
func (a Account) LinkFor(provider string) (ProviderLink, bool) {
	for _, l := range a.Links {
		if l.Provider == provider {
			return l, true
		}
	}
	return ProviderLink{}, false
}

// ProviderLink associates an account with an external OAuth identity.
type ProviderLink struct {
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// ProviderIdentity is the payload an OAuth provider returns on callback.
type ProviderIdentity struct {
	Provider       string
	ProviderUserID string
	Email          string
	DisplayName    string
}

// NormalizeIdentifier trims and lower-cases a login identifier so that
// uniqueness holds regardless of how the user typed it.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
