package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/hurtle-auth/internal/logger"
	"github.com/dtroode/hurtle-auth/internal/model"
)

// Auth is the entry point for local login, provider login and registration.
type Auth struct {
	store    model.AccountStore
	hasher   model.PasswordHasher
	verifier *Verifier
	linker   *Linker
	tokens   *TokenService
	metrics  model.AuthMetrics
	logger   *logger.Logger
	now      func() time.Time
}

func NewAuth(
	store model.AccountStore,
	hasher model.PasswordHasher,
	tokens *TokenService,
	metrics model.AuthMetrics,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		store:    store,
		hasher:   hasher,
		verifier: NewVerifier(store, hasher),
		linker:   NewLinker(store),
		tokens:   tokens,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Login verifies local credentials and issues a session.
// On failure the returned session is zero.
func (a *Auth) Login(ctx context.Context, identifier, password string) (session model.Session, err error) {
	a.logger.Debug("Auth service: starting login",
		"identifier", identifier)

	start := time.Now()
	defer func() {
		a.metrics.RecordAttempt(model.MethodPassword, model.KindOf(err), time.Since(start))
	}()

	accountID, err := a.verifier.Verify(ctx, identifier, password)
	if err != nil {
		a.logger.Info("Auth service: login rejected",
			"identifier", identifier,
			"kind", model.KindOf(err))
		return model.Session{}, err
	}

	session, err = a.tokens.Issue(ctx, accountID)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: login completed",
		"account_id", accountID)

	return session, nil
}

// LoginViaProvider resolves a provider callback payload to an account and
// issues a session.
func (a *Auth) LoginViaProvider(ctx context.Context, identity model.ProviderIdentity) (session model.Session, err error) {
	a.logger.Debug("Auth service: starting provider login",
		"provider", identity.Provider,
		"provider_user_id", identity.ProviderUserID)

	start := time.Now()
	defer func() {
		a.metrics.RecordAttempt(model.MethodProvider, model.KindOf(err), time.Since(start))
	}()

	accountID, err := a.linker.LinkOrCreate(ctx, identity)
	if err != nil {
		a.logger.Info("Auth service: provider login rejected",
			"provider", identity.Provider,
			"email", identity.Email,
			"kind", model.KindOf(err))
		return model.Session{}, err
	}

	session, err = a.tokens.Issue(ctx, accountID)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: provider login completed",
		"provider", identity.Provider,
		"account_id", accountID)

	return session, nil
}

// Register creates a local account. It does not issue a session.
//
// The identifier pre-check gives a clean error for the common case; the
// store's unique constraint decides concurrent registrations.
func (a *Auth) Register(ctx context.Context, identifier, password, displayName string) (accountID uuid.UUID, err error) {
	identifier = model.NormalizeIdentifier(identifier)
	a.logger.Debug("Auth service: starting registration",
		"identifier", identifier)

	start := time.Now()
	defer func() {
		a.metrics.RecordAttempt(model.MethodRegister, model.KindOf(err), time.Since(start))
	}()

	if identifier == "" {
		return uuid.Nil, model.NewError(model.KindInvalidInput, "identifier is required", nil)
	}
	if utf8.RuneCountInString(password) < model.MinPasswordLength {
		return uuid.Nil, model.NewError(model.KindInvalidInput, "password is too short", nil)
	}

	_, err = a.store.GetByIdentifier(ctx, identifier)
	if err == nil {
		a.logger.Info("Auth service: identifier already taken",
			"identifier", identifier)
		return uuid.Nil, model.ErrIdentifierTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get account by identifier",
			"identifier", identifier,
			"error", err.Error())
		return uuid.Nil, model.Unavailable("failed to get account by identifier", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		if model.KindOf(err) == model.KindInvalidInput {
			return uuid.Nil, err
		}
		return uuid.Nil, model.Unavailable("failed to hash password", err)
	}

	now := a.now().UTC()
	account, err := a.store.Create(ctx, model.Account{
		ID:           uuid.New(),
		Identifier:   identifier,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrConflict) {
		a.logger.Info("Auth service: identifier claimed concurrently",
			"identifier", identifier)
		return uuid.Nil, model.NewError(model.KindIdentifierTaken, "identifier is already taken", err)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create account",
			"identifier", identifier,
			"error", err.Error())
		return uuid.Nil, model.Unavailable("failed to create account", err)
	}

	a.logger.Info("Auth service: registration completed",
		"identifier", identifier,
		"account_id", account.ID)

	return account.ID, nil
}

// Validate resolves a session token to its account id.
func (a *Auth) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	return a.tokens.Validate(ctx, token)
}

// Profile returns the account with the given id.
func (a *Auth) Profile(ctx context.Context, accountID uuid.UUID) (model.Account, error) {
	account, err := a.store.GetByID(ctx, accountID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get account",
			"account_id", accountID,
			"error", err.Error())
		return model.Account{}, model.Unavailable("failed to get account", err)
	}
	return account, nil
}
