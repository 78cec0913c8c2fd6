package model

import (
	"context"
	"net"

	"github.com/google/uuid"
)

// ContextManager stores the authenticated account id on a request context.
type ContextManager interface {
	SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context
	GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool)
}

// SecurityLayer opens the listener a server accepts connections on.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network server with a managed lifecycle.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
