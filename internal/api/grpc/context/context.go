package context

import (
	"context"

	"github.com/google/uuid"
)

// accountIDKey is the context key of the authenticated account id.
// It is unexported so that request metadata can never populate it.
type accountIDKey struct{}

// Manager represents a gRPC context manager for account ID operations.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetAccountIDToContext stores the authenticated account ID on the context.
//
// Parameters:
//   - ctx: The gRPC context
//   - accountID: The account UUID resolved from the session token
//
// Returns a derived context carrying the account ID.
func (m *Manager) SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

// GetAccountIDFromContext retrieves the account ID stored by SetAccountIDToContext.
//
// Parameters:
//   - ctx: The gRPC context
//
// Returns the account UUID and a boolean indicating if a non-nil ID was found.
func (m *Manager) GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountID, ok := ctx.Value(accountIDKey{}).(uuid.UUID)
	if !ok || accountID == uuid.Nil {
		return uuid.Nil, false
	}
	return accountID, true
}
