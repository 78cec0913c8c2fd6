package handler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/hurtle-auth/internal/api/grpc/authapi"
	"github.com/dtroode/hurtle-auth/internal/mocks"
	"github.com/dtroode/hurtle-auth/internal/model"
	"github.com/dtroode/hurtle-auth/internal/testutil"
)

func TestAuth_Register(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	id := uuid.New()
	svc.On("Register", mock.Anything, "a@x.com", "secret1", "A").Return(id, nil).Once()

	h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())
	out, err := h.Register(context.Background(), &authapi.RegisterRequest{Identifier: "a@x.com", Password: "secret1", DisplayName: "A"})
	require.NoError(t, err)
	assert.Equal(t, id.String(), out.AccountID)
}

func TestAuth_Register_Taken(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	svc.On("Register", mock.Anything, "a@x.com", "secret1", "").Return(uuid.Nil, model.ErrIdentifierTaken).Once()

	h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())
	out, err := h.Register(context.Background(), &authapi.RegisterRequest{Identifier: "a@x.com", Password: "secret1"})
	assert.Nil(t, out)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	session := model.Session{Token: "tok", AccountID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}
	svc.On("Login", mock.Anything, "a@x.com", "secret1").Return(session, nil).Once()
	svc.On("Login", mock.Anything, "a@x.com", "wrong").Return(model.Session{}, model.ErrInvalidPassword).Once()

	h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

	out, err := h.Login(context.Background(), &authapi.LoginRequest{Identifier: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, session.AccountID.String(), out.AccountID)

	out, err = h.Login(context.Background(), &authapi.LoginRequest{Identifier: "a@x.com", Password: "wrong"})
	assert.Nil(t, out)
	assert.Equal(t, model.KindInvalidPassword, authapi.KindOf(err))
}

func TestAuth_Validate(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	id := uuid.New()
	svc.On("Validate", mock.Anything, "good").Return(id, nil).Once()
	svc.On("Validate", mock.Anything, "old").Return(uuid.Nil, model.ErrExpired).Once()

	h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

	out, err := h.Validate(context.Background(), &authapi.ValidateRequest{Token: "good"})
	require.NoError(t, err)
	assert.Equal(t, id.String(), out.AccountID)

	_, err = h.Validate(context.Background(), &authapi.ValidateRequest{Token: "old"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, model.KindExpired, authapi.KindOf(err))
}

func TestAuth_Profile(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	ctxMgr := mocks.NewContextManager(t)
	ctx := context.Background()
	account := model.Account{
		ID:         uuid.New(),
		Identifier: "b@x.com",
		Links:      []model.ProviderLink{{Provider: model.ProviderGoogle, ProviderUserID: "g1"}},
	}

	ctxMgr.On("GetAccountIDFromContext", ctx).Return(account.ID, true).Once()
	svc.On("Profile", ctx, account.ID).Return(account, nil).Once()

	h := NewAuth(svc, ctxMgr, testutil.MakeNoopLogger())
	out, err := h.Profile(ctx, &authapi.ProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", out.Identifier)
	assert.False(t, out.HasPassword)
	assert.Equal(t, []string{model.ProviderGoogle}, out.Providers)
}

func TestAuth_Profile_NoAccountInContext(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	ctxMgr := mocks.NewContextManager(t)
	ctxMgr.On("GetAccountIDFromContext", mock.Anything).Return(uuid.Nil, false).Once()

	h := NewAuth(svc, ctxMgr, testutil.MakeNoopLogger())
	_, err := h.Profile(context.Background(), &authapi.ProfileRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
