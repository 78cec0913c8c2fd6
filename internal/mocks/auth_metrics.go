package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/hurtle-auth/internal/model"
)

// AuthMetrics is a testify mock of model.AuthMetrics.
type AuthMetrics struct {
	mock.Mock
}

func NewAuthMetrics(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthMetrics {
	m := &AuthMetrics{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthMetrics) RecordAttempt(method string, kind model.Kind, elapsed time.Duration) {
	m.Called(method, kind, elapsed)
}

func (m *AuthMetrics) RecordTokenIssued() {
	m.Called()
}

func (m *AuthMetrics) RecordTokenValidation(kind model.Kind) {
	m.Called(kind)
}
