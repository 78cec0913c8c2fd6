package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/hurtle-auth/internal/model"
)

const typeSession = "session"

// Claims represents session token claims. The account id travels in "sub".
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
	parser    *jwt.Parser
}

// Option configures a JWT manager.
type Option func(*JWT)

// WithClock replaces the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a token manager signing with secretKey. Every token it
// issues is valid for ttl.
func NewJWT(secretKey string, ttl time.Duration, opts ...Option) *JWT {
	j := &JWT{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	j.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return j.now() }),
	)

	return j
}

// Issue creates a session token for accountID.
func (j *JWT) Issue(accountID uuid.UUID) (model.Session, error) {
	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		TokenType: typeSession,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return model.Session{
		Token:     signed,
		AccountID: accountID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Parse validates a session token and extracts the account id.
// Failures are typed as KindMalformed, KindBadSignature or KindExpired.
func (j *JWT) Parse(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	_, err := j.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return uuid.Nil, classify(err)
	}

	if claims.TokenType != typeSession {
		return uuid.Nil, model.NewError(model.KindMalformed, "token type mismatch", fmt.Errorf("got %q", claims.TokenType))
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil || accountID == uuid.Nil {
		return uuid.Nil, model.NewError(model.KindMalformed, "token subject is not an account id", err)
	}

	return accountID, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return model.NewError(model.KindMalformed, "malformed token", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return model.NewError(model.KindBadSignature, "token signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.NewError(model.KindExpired, "token expired", err)
	default:
		return model.NewError(model.KindMalformed, "invalid token claims", err)
	}
}
