package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/hurtle-auth/internal/model"
)

type nopMetrics struct{}

func (nopMetrics) RecordAttempt(string, model.Kind, time.Duration) {}
func (nopMetrics) RecordTokenIssued()                              {}
func (nopMetrics) RecordTokenValidation(model.Kind)                {}

type linkKey struct {
	provider       string
	providerUserID string
}

// memStore enforces the same uniqueness rules as the SQL stores.
type memStore struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]model.Account
	byIdentifier map[string]uuid.UUID
	byLink       map[linkKey]uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		byID:         make(map[uuid.UUID]model.Account),
		byIdentifier: make(map[string]uuid.UUID),
		byLink:       make(map[linkKey]uuid.UUID),
	}
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.byID[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return acc, nil
}

func (s *memStore) GetByIdentifier(_ context.Context, identifier string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byIdentifier[identifier]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *memStore) GetByProviderLink(_ context.Context, provider, providerUserID string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byLink[linkKey{provider, providerUserID}]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *memStore) Create(_ context.Context, account model.Account) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byIdentifier[account.Identifier]; ok {
		return model.Account{}, model.ErrConflict
	}
	for _, l := range account.Links {
		if _, ok := s.byLink[linkKey{l.Provider, l.ProviderUserID}]; ok {
			return model.Account{}, model.ErrConflict
		}
	}
	s.byID[account.ID] = account
	s.byIdentifier[account.Identifier] = account.ID
	for _, l := range account.Links {
		s.byLink[linkKey{l.Provider, l.ProviderUserID}] = account.ID
	}
	return account, nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func strPtr(s string) *string { return &s }
