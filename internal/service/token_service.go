package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/hurtle-auth/internal/logger"
	"github.com/dtroode/hurtle-auth/internal/model"
)

// TokenService issues and validates session tokens. Validation is
// stateless: there is no revocation list.
type TokenService struct {
	manager model.TokenManager
	metrics model.AuthMetrics
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, metrics model.AuthMetrics, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, metrics: metrics, logger: logger}
}

// Issue signs a new session for accountID.
func (s *TokenService) Issue(ctx context.Context, accountID uuid.UUID) (model.Session, error) {
	session, err := s.manager.Issue(accountID)
	if err != nil {
		s.logger.Error("Token service: failed to issue session",
			"account_id", accountID,
			"error", err.Error())
		return model.Session{}, model.Unavailable("failed to issue session token", err)
	}

	s.metrics.RecordTokenIssued()

	return session, nil
}

// Validate returns the account id a session token was issued for.
// Failures carry KindMalformed, KindBadSignature or KindExpired.
func (s *TokenService) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	accountID, err := s.manager.Parse(token)
	s.metrics.RecordTokenValidation(model.KindOf(err))
	if err != nil {
		s.logger.Debug("Token service: token rejected",
			"kind", model.KindOf(err),
			"error", err.Error())
		return uuid.Nil, err
	}

	return accountID, nil
}
