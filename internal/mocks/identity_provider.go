package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/hurtle-auth/internal/model"
)

// IdentityProvider is a testify mock of an OAuth identity provider.
type IdentityProvider struct {
	mock.Mock
}

func NewIdentityProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *IdentityProvider {
	m := &IdentityProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *IdentityProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *IdentityProvider) Exchange(ctx context.Context, code string) (model.ProviderIdentity, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.ProviderIdentity), args.Error(1)
}
