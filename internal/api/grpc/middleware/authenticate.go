package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/hurtle-auth/internal/logger"
	"github.com/dtroode/hurtle-auth/internal/model"
)

// TokenValidator resolves an account ID from a session token.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the account ID into context.
type Authenticate struct {
	tokens         TokenValidator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenValidator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the "authorization: Bearer <token>" metadata, validates the
// token and returns a context carrying the account ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}

	accountID, err := m.tokens.Validate(ctx, token)
	if err != nil {
		kind := model.KindOf(err)
		m.logger.Debug("Authenticate middleware: token rejected",
			"kind", kind)
		return nil, status.Error(codes.Unauthenticated, kind.Message())
	}
	if accountID == uuid.Nil {
		return nil, status.Error(codes.Unauthenticated, model.KindMalformed.Message())
	}

	return m.contextManager.SetAccountIDToContext(ctx, accountID), nil
}
