package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/hurtle-auth/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	for i := 0; i < 50; i++ {
		id := uuid.New()

		session, err := j.Issue(id)
		require.NoError(t, err)
		assert.Equal(t, id, session.AccountID)
		assert.Equal(t, time.Hour, session.ExpiresAt.Sub(session.IssuedAt))

		got, err := j.Parse(session.Token)
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
}

func TestJWT_ExpiryValidation(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	j := NewJWT("secret", time.Second, WithClock(clock.Now))

	session, err := j.Issue(uuid.New())
	require.NoError(t, err)

	_, err = j.Parse(session.Token)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)

	_, err = j.Parse(session.Token)
	require.ErrorIs(t, err, model.ErrExpired)
	assert.Equal(t, model.KindExpired, model.KindOf(err))
}

func TestJWT_ExpiresAtBoundary(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	j := NewJWT("secret", time.Minute, WithClock(clock.Now))

	session, err := j.Issue(uuid.New())
	require.NoError(t, err)

	clock.now = session.ExpiresAt

	_, err = j.Parse(session.Token)
	require.ErrorIs(t, err, model.ErrExpired)
}

func TestJWT_Failures(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	id := uuid.New()

	otherKey, err := NewJWT("another-secret", time.Hour).Issue(id)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TokenType: typeSession,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TokenType: "refresh",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TokenType: typeSession,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
		TokenType:        typeSession,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  model.Kind
	}{
		{name: "garbage", token: "not-a-token", want: model.KindMalformed},
		{name: "empty", token: "", want: model.KindMalformed},
		{name: "signed with another key", token: otherKey.Token, want: model.KindBadSignature},
		{name: "unexpected algorithm", token: hs512, want: model.KindBadSignature},
		{name: "wrong token type", token: wrongType, want: model.KindMalformed},
		{name: "subject is not a uuid", token: badSubject, want: model.KindMalformed},
		{name: "missing expiry", token: noExpiry, want: model.KindMalformed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := j.Parse(tt.token)
			require.Error(t, err)
			assert.Equal(t, uuid.Nil, got)
			assert.Equal(t, tt.want, model.KindOf(err))
		})
	}
}

func TestJWT_StatelessValidation(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	id := uuid.New()

	session, err := j.Issue(id)
	require.NoError(t, err)

	// A second manager with the same key accepts the token: no server-side state.
	got, err := NewJWT("secret", time.Minute).Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
