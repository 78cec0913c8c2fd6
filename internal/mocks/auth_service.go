package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/hurtle-auth/internal/model"
)

// AuthService is a testify mock of the authentication service as seen by
// the transport layers.
type AuthService struct {
	mock.Mock
}

func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthService) Register(ctx context.Context, identifier, password, displayName string) (uuid.UUID, error) {
	args := m.Called(ctx, identifier, password, displayName)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, identifier, password string) (model.Session, error) {
	args := m.Called(ctx, identifier, password)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *AuthService) LoginViaProvider(ctx context.Context, identity model.ProviderIdentity) (model.Session, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *AuthService) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *AuthService) Profile(ctx context.Context, accountID uuid.UUID) (model.Account, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(model.Account), args.Error(1)
}
