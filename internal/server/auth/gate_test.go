package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/models"
)

type fakeUsers struct {
	users map[string]*models.PublicUser
	err   error
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.PublicUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func newTestGate(t *testing.T, c *clock, users *fakeUsers) (*Gate, *TokenService) {
	t.Helper()
	tokens := newTestTokenService(t, "gate-secret", time.Hour, c)
	return NewGate(tokens, users, logging.NewNopLogger()), tokens
}

func TestGate_ValidToken(t *testing.T) {
	c := &clock{t: fixedNow}
	alice := &models.PublicUser{ID: "u-1", Email: "a@x.com"}
	g, tokens := newTestGate(t, c, &fakeUsers{users: map[string]*models.PublicUser{"u-1": alice}})

	tok, err := tokens.Issue("u-1")
	require.NoError(t, err)

	got, err := g.Authenticate(context.Background(), "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	got, err = g.Authenticate(context.Background(), "bearer "+tok)
	require.NoError(t, err, "scheme is case-insensitive")
	assert.Equal(t, alice, got)
}

func TestGate_Rejections(t *testing.T) {
	c := &clock{t: fixedNow}
	users := &fakeUsers{users: map[string]*models.PublicUser{"u-1": {ID: "u-1"}}}
	g, tokens := newTestGate(t, c, users)

	valid, err := tokens.Issue("u-1")
	require.NoError(t, err)
	deleted, err := tokens.Issue("u-gone")
	require.NoError(t, err)
	c.t = fixedNow.Add(-2 * time.Hour)
	expired, err := tokens.Issue("u-1")
	require.NoError(t, err)
	c.t = fixedNow

	tests := []struct {
		name   string
		header string
		cause  error
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic " + valid},
		{name: "scheme only", header: "Bearer"},
		{name: "extra parts", header: "Bearer " + valid + " extra"},
		{name: "garbage token", header: "Bearer garbage", cause: common.ErrInvalidToken},
		{name: "tampered token", header: "Bearer " + valid + "x", cause: common.ErrInvalidToken},
		{name: "expired token", header: "Bearer " + expired, cause: common.ErrTokenExpired},
		{name: "deleted identity", header: "Bearer " + deleted, cause: common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := g.Authenticate(context.Background(), tt.header)
			assert.Nil(t, u)
			require.ErrorIs(t, err, common.ErrUnauthenticated)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestGate_StoreFailureIsInternal(t *testing.T) {
	c := &clock{t: fixedNow}
	g, tokens := newTestGate(t, c, &fakeUsers{err: errors.New("db down")})

	tok, err := tokens.Issue("u-1")
	require.NoError(t, err)

	_, err = g.Authenticate(context.Background(), "Bearer "+tok)
	assert.ErrorIs(t, err, common.ErrInternal)
	assert.False(t, errors.Is(err, common.ErrUnauthenticated))
}

func TestParseBearer(t *testing.T) {
	tok, err := ParseBearer("  Bearer abc.def.ghi ")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, h := range []string{"", "Bearer ", "Token abc", "abc", "Bearer a b"} {
		_, err := ParseBearer(h)
		assert.Error(t, err, "header %q", h)
	}
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	u := &models.PublicUser{ID: "u-1"}
	got, ok := UserFromContext(WithUser(context.Background(), u))
	require.True(t, ok)
	assert.Same(t, u, got)

	_, ok = UserFromContext(WithUser(context.Background(), nil))
	assert.False(t, ok)
}
