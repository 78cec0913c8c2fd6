package middleware

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/hurtle-auth/internal/logger"
)

func TestNewRecovery(t *testing.T) {
	var buf bytes.Buffer
	interceptor := NewRecovery(logger.NewWithWriter(&buf, 0))
	info := &grpc.UnaryServerInfo{FullMethod: "/hurtle.auth.v1.Auth/Login"}

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("nil map write")
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, buf.String(), "gRPC handler panicked")
	assert.Contains(t, buf.String(), "nil map write")

	resp, err = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}
