package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/hurtle-auth/internal/model"
)

// AccountStore is a testify mock of model.AccountStore.
type AccountStore struct {
	mock.Mock
}

// NewAccountStore creates a mock that asserts its expectations on cleanup.
func NewAccountStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountStore {
	m := &AccountStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) GetByIdentifier(ctx context.Context, identifier string) (model.Account, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) GetByProviderLink(ctx context.Context, provider, providerUserID string) (model.Account, error) {
	args := m.Called(ctx, provider, providerUserID)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) Create(ctx context.Context, account model.Account) (model.Account, error) {
	args := m.Called(ctx, account)
	if fn, ok := args.Get(0).(func(context.Context, model.Account) model.Account); ok {
		return fn(ctx, account), args.Error(1)
	}
	return args.Get(0).(model.Account), args.Error(1)
}
