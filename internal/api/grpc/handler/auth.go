package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/hurtle-auth/internal/api/grpc/authapi"
	"github.com/dtroode/hurtle-auth/internal/logger"
	"github.com/dtroode/hurtle-auth/internal/model"
)

// AuthService defines the authentication operations served over gRPC.
// Provider login is deliberately absent: it is only reachable through the
// OAuth callback, which proves the identity with the provider first.
type AuthService interface {
	Register(ctx context.Context, identifier, password, displayName string) (uuid.UUID, error)
	Login(ctx context.Context, identifier, password string) (model.Session, error)
	Validate(ctx context.Context, token string) (uuid.UUID, error)
	Profile(ctx context.Context, accountID uuid.UUID) (model.Account, error)
}

var _ authapi.AuthServer = (*Auth)(nil)

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates a local account.
func (h *Auth) Register(ctx context.Context, req *authapi.RegisterRequest) (*authapi.RegisterResponse, error) {
	h.logger.Debug("Auth handler: processing register request",
		"identifier", req.Identifier)

	accountID, err := h.authService.Register(ctx, req.Identifier, req.Password, req.DisplayName)
	if err != nil {
		h.logger.Info("Auth handler: register failed",
			"identifier", req.Identifier,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &authapi.RegisterResponse{AccountID: accountID.String()}, nil
}

// Login exchanges local credentials for a session token.
func (h *Auth) Login(ctx context.Context, req *authapi.LoginRequest) (*authapi.LoginResponse, error) {
	h.logger.Debug("Auth handler: processing login request",
		"identifier", req.Identifier)

	session, err := h.authService.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"identifier", req.Identifier,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &authapi.LoginResponse{
		Token:     session.Token,
		AccountID: session.AccountID.String(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Validate resolves a session token to its account id.
func (h *Auth) Validate(ctx context.Context, req *authapi.ValidateRequest) (*authapi.ValidateResponse, error) {
	accountID, err := h.authService.Validate(ctx, req.Token)
	if err != nil {
		return nil, handleError(err)
	}

	return &authapi.ValidateResponse{AccountID: accountID.String()}, nil
}

// Profile returns the caller's account. It requires an authenticated context.
func (h *Auth) Profile(ctx context.Context, _ *authapi.ProfileRequest) (*authapi.ProfileResponse, error) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing account in context")
	}

	account, err := h.authService.Profile(ctx, accountID)
	if err != nil {
		h.logger.Error("Auth handler: profile failed",
			"account_id", accountID,
			"error", err.Error())
		return nil, handleError(err)
	}

	providers := make([]string, 0, len(account.Links))
	for _, l := range account.Links {
		providers = append(providers, l.Provider)
	}

	return &authapi.ProfileResponse{
		AccountID:   account.ID.String(),
		Identifier:  account.Identifier,
		DisplayName: account.DisplayName,
		HasPassword: account.HasPassword(),
		Providers:   providers,
		CreatedAt:   account.CreatedAt,
	}, nil
}
