package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dtroode/hurtle-auth/internal/model"
)

// Verifier checks local identifier and password credentials.
type Verifier struct {
	store  model.AccountStore
	hasher model.PasswordHasher
}

func NewVerifier(store model.AccountStore, hasher model.PasswordHasher) *Verifier {
	return &Verifier{store: store, hasher: hasher}
}

// Verify returns the id of the account identified by identifier when
// password matches its stored hash. It never writes.
func (v *Verifier) Verify(ctx context.Context, identifier, password string) (uuid.UUID, error) {
	identifier = model.NormalizeIdentifier(identifier)
	if identifier == "" {
		return uuid.Nil, model.NewError(model.KindInvalidInput, "identifier is required", nil)
	}

	account, err := v.store.GetByIdentifier(ctx, identifier)
	if errors.Is(err, model.ErrNotFound) {
		return uuid.Nil, model.ErrAccountNotFound
	}
	if err != nil {
		return uuid.Nil, model.Unavailable("failed to get account by identifier", err)
	}

	if !account.HasPassword() {
		return uuid.Nil, model.ErrWrongAuthMethod
	}

	ok, err := v.hasher.Verify(password, *account.PasswordHash)
	if err != nil {
		return uuid.Nil, model.Unavailable("failed to verify password", err)
	}
	if !ok {
		return uuid.Nil, model.ErrInvalidPassword
	}

	return account.ID, nil
}
