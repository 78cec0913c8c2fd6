package hash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/hurtle-auth/internal/model"
)

var _ model.PasswordHasher = (*Bcrypt)(nil)

// Bcrypt implements PasswordHasher with bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the given cost. Costs outside bcrypt's
// accepted range fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns the bcrypt hash of plaintext. Passwords longer than 72 bytes
// are rejected as invalid input.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", model.NewError(model.KindInvalidInput, "password is too long", err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hash. A mismatch is not an error.
func (b *Bcrypt) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to verify password: %w", err)
}
