package middleware

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/hurtle-auth/internal/mocks"
	"github.com/dtroode/hurtle-auth/internal/model"
	"github.com/dtroode/hurtle-auth/internal/testutil"
)

type ctxKey struct{}

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mdAuthHeader string
		token        string
		accountID    uuid.UUID
		validateErr  error
		wantGRPCCode codes.Code
		expectSetCtx bool
	}{
		{
			name:         "missing authorization header",
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "wrong scheme",
			mdAuthHeader: "Basic dXNlcjpwYXNz",
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "expired token",
			mdAuthHeader: "Bearer old",
			token:        "old",
			validateErr:  model.ErrExpired,
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "nil account id",
			mdAuthHeader: "Bearer odd",
			token:        "odd",
			accountID:    uuid.Nil,
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "valid token",
			mdAuthHeader: "Bearer good",
			token:        "good",
			accountID:    uuid.New(),
			wantGRPCCode: codes.OK,
			expectSetCtx: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens := mocks.NewAuthService(t)
			ctxMgr := mocks.NewContextManager(t)

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}
			if tt.token != "" {
				tokens.On("Validate", mock.Anything, tt.token).Return(tt.accountID, tt.validateErr).Once()
			}
			marked := context.WithValue(ctx, ctxKey{}, "authenticated")
			if tt.expectSetCtx {
				ctxMgr.On("SetAccountIDToContext", mock.Anything, tt.accountID).Return(marked).Once()
			}

			a := NewAuthenticate(tokens, ctxMgr, testutil.MakeNoopLogger())
			got, err := a.AuthFunc(ctx)

			if tt.wantGRPCCode != codes.OK {
				assert.Nil(t, got)
				assert.Equal(t, tt.wantGRPCCode, status.Code(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "authenticated", got.Value(ctxKey{}))
		})
	}
}
