package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophid/internal/common"
)

func TestCodec(t *testing.T) {
	c := Codec()
	assert.Equal(t, "json", c.Name())

	in := &AuthResponse{
		User:  User{ID: "u1", Email: "a@example.com", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		Token: "t",
	}
	b, err := c.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"id":"u1","email":"a@example.com","created_at":"2024-05-01T00:00:00Z"},"token":"t"}`, string(b))

	out := &AuthResponse{}
	require.NoError(t, c.Unmarshal(b, out))
	assert.Equal(t, in, out)

	assert.Error(t, c.Unmarshal([]byte("{"), out))
}

func TestIsProtected(t *testing.T) {
	for _, m := range []string{MethodWhoAmI, MethodCheckToken, MethodListUsers} {
		assert.True(t, IsProtected(m), m)
	}
	for _, m := range []string{MethodRegister, MethodLogin, MethodCreateUser, "/other.Service/WhoAmI"} {
		assert.False(t, IsProtected(m), m)
	}
}

func TestServiceDesc(t *testing.T) {
	assert.Equal(t, "gophid.v1.IdentityService", IdentityServiceDesc.ServiceName)

	names := make([]string, 0, len(IdentityServiceDesc.Methods))
	for _, m := range IdentityServiceDesc.Methods {
		names = append(names, m.MethodName)
		assert.NotNil(t, m.Handler)
	}
	assert.ElementsMatch(t, []string{"Register", "Login", "CreateUser", "WhoAmI", "CheckToken", "ListUsers"}, names)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(&RegisterRequest{Email: "a@example.com", Password: "pw"}))
	require.NoError(t, Validate(&WhoAmIRequest{}))

	err := Validate(&LoginRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "email: must be a valid email address")
	assert.Contains(t, err.Error(), "password: is required")
}
