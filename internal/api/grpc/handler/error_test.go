package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/hurtle-auth/internal/api/grpc/authapi"
	"github.com/dtroode/hurtle-auth/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantKind model.Kind
		wantMsg  string
	}{
		{name: "not found", in: model.ErrAccountNotFound, wantCode: codes.NotFound, wantKind: model.KindAccountNotFound, wantMsg: "User not found"},
		{name: "invalid password", in: model.ErrInvalidPassword, wantCode: codes.Unauthenticated, wantKind: model.KindInvalidPassword, wantMsg: "Password is Invalid"},
		{name: "wrong auth method", in: model.ErrWrongAuthMethod, wantCode: codes.FailedPrecondition, wantKind: model.KindWrongAuthMethod, wantMsg: "Sign in with a different provider"},
		{name: "provider mismatch", in: model.ErrProviderMismatch, wantCode: codes.FailedPrecondition, wantKind: model.KindProviderMismatch, wantMsg: "Sign in with a different provider"},
		{name: "identifier taken", in: model.ErrIdentifierTaken, wantCode: codes.AlreadyExists, wantKind: model.KindIdentifierTaken},
		{name: "invalid input", in: model.ErrInvalidInput, wantCode: codes.InvalidArgument, wantKind: model.KindInvalidInput},
		{name: "expired", in: fmt.Errorf("validate: %w", model.ErrExpired), wantCode: codes.Unauthenticated, wantKind: model.KindExpired},
		{name: "bad signature", in: model.ErrBadSignature, wantCode: codes.Unauthenticated, wantKind: model.KindBadSignature},
		{name: "untyped", in: errors.New("boom"), wantCode: codes.Unavailable, wantKind: model.KindStorageUnavailable, wantMsg: "Service temporarily unavailable"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantKind, authapi.KindOf(err))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, st.Message())
			}
		})
	}
}
