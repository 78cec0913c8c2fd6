package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/hurtle-auth/internal/model"
)

// Linker resolves an external provider identity to a local account.
type Linker struct {
	store model.AccountStore
	now   func() time.Time
}

func NewLinker(store model.AccountStore) *Linker {
	return &Linker{store: store, now: time.Now}
}

// LinkOrCreate returns the account linked to identity, creating one when
// neither the link nor the identifier is known.
//
// The lookups run in a fixed order: provider link, then identifier, then
// create. An identifier owned by an account that is not linked to this
// identity fails with KindProviderMismatch and is never attached to.
func (l *Linker) LinkOrCreate(ctx context.Context, identity model.ProviderIdentity) (uuid.UUID, error) {
	provider := strings.TrimSpace(identity.Provider)
	providerUserID := strings.TrimSpace(identity.ProviderUserID)
	email := model.NormalizeIdentifier(identity.Email)
	if provider == "" || providerUserID == "" {
		return uuid.Nil, model.NewError(model.KindInvalidInput, "provider identity is incomplete", nil)
	}
	if email == "" {
		return uuid.Nil, model.NewError(model.KindInvalidInput, "provider did not return an email", nil)
	}

	linked, err := l.store.GetByProviderLink(ctx, provider, providerUserID)
	if err == nil {
		return linked.ID, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return uuid.Nil, model.Unavailable("failed to get account by provider link", err)
	}

	_, err = l.store.GetByIdentifier(ctx, email)
	if err == nil {
		return uuid.Nil, model.ErrProviderMismatch
	}
	if !errors.Is(err, model.ErrNotFound) {
		return uuid.Nil, model.Unavailable("failed to get account by identifier", err)
	}

	now := l.now().UTC()
	created, err := l.store.Create(ctx, model.Account{
		ID:          uuid.New(),
		Identifier:  email,
		DisplayName: strings.TrimSpace(identity.DisplayName),
		Links: []model.ProviderLink{{
			Provider:       provider,
			ProviderUserID: providerUserID,
			CreatedAt:      now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, model.ErrConflict) {
		return l.resolveConflict(ctx, provider, providerUserID)
	}
	if err != nil {
		return uuid.Nil, model.Unavailable("failed to create account", err)
	}

	return created.ID, nil
}

// resolveConflict handles a concurrent create for the same identity or email.
// If the winner holds this provider link the login is idempotent, otherwise
// the email was claimed by another account.
func (l *Linker) resolveConflict(ctx context.Context, provider, providerUserID string) (uuid.UUID, error) {
	linked, err := l.store.GetByProviderLink(ctx, provider, providerUserID)
	if errors.Is(err, model.ErrNotFound) {
		return uuid.Nil, model.ErrProviderMismatch
	}
	if err != nil {
		return uuid.Nil, model.Unavailable("failed to get account by provider link", err)
	}
	return linked.ID, nil
}
