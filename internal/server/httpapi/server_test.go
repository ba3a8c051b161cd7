package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/migrations"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophid/internal/server/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db, migrations.SQLite))

	logger := logging.NewNopLogger()
	tokens, err := auth.NewTokenService([]byte("http-secret"), time.Hour)
	require.NoError(t, err)
	us, err := services.NewUserService(users.NewSQLiteRepository(db), auth.NewBcryptHasher(bcrypt.MinCost), tokens, logger)
	require.NoError(t, err)

	return NewHTTPServer("", logger, us, auth.NewGate(tokens, us, logger)).Handler()
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	h := newTestHandler(t)
	w := do(t, h, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRequestID_Propagated(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
}

func TestRegisterLoginFlow(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/auth/register", "", api.RegisterRequest{Email: "alice@example.com", Password: "pw", Name: "Alice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[api.AuthResponse](t, w)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = do(t, h, http.MethodPost, "/auth/register", "", api.RegisterRequest{Email: "alice@example.com", Password: "pw2"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPost, "/auth/login", "", api.LoginRequest{Email: "alice@example.com", Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[api.AuthResponse](t, w)
	assert.Equal(t, reg.User.ID, login.User.ID)

	w = do(t, h, http.MethodPost, "/auth/login", "", api.LoginRequest{Email: "alice@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/auth/login", "", api.LoginRequest{Email: "ghost@example.com", Password: "pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, w.Body.String())
}

func TestRegisterLogin_LongPassword(t *testing.T) {
	h := newTestHandler(t)
	pw := strings.Repeat("p", 100)

	w := do(t, h, http.MethodPost, "/auth/register", "", api.RegisterRequest{Email: "long@example.com", Password: pw})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/auth/login", "", api.LoginRequest{Email: "long@example.com", Password: pw})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/auth/login", "", api.LoginRequest{Email: "long@example.com", Password: pw[:72]})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBadRequest(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/auth/register", "", map[string]string{"email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/auth/login", "", map[string]string{"email": "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutes(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/auth", "/auth/check-token", "/auth/some-id"} {
		w := do(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.JSONEq(t, `{"error":"not authenticated"}`, w.Body.String())

		w = do(t, h, http.MethodGet, path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := do(t, h, http.MethodPost, "/auth/register", "", api.RegisterRequest{Email: "bob@example.com", Password: "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode[api.AuthResponse](t, w)

	w = do(t, h, http.MethodPost, "/auth", "", api.CreateUserRequest{Email: "carol@example.com", Password: "pw", Name: "Carol"})
	require.Equal(t, http.StatusCreated, w.Code)
	carol := decode[api.UserResponse](t, w)

	w = do(t, h, http.MethodGet, "/auth", reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[api.ListUsersResponse](t, w)
	assert.Len(t, list.Users, 2)

	w = do(t, h, http.MethodGet, "/auth/"+carol.User.ID, reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[api.UserResponse](t, w)
	assert.Equal(t, "Carol", got.User.Name)

	w = do(t, h, http.MethodGet, "/auth/does-not-exist", reg.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/auth/check-token", reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	renewed := decode[api.AuthResponse](t, w)
	assert.Equal(t, reg.User.ID, renewed.User.ID)
	assert.NotEmpty(t, renewed.Token)
}

type failingGate struct{ err error }

func (g failingGate) Authenticate(context.Context, string) (*models.PublicUser, error) {
	return nil, g.err
}

func TestAuthenticate_StoreFailureIs500(t *testing.T) {
	logger := logging.NewNopLogger()
	gate := failingGate{err: fmt.Errorf("%w: %w", common.ErrInternal, errors.New("db down"))}
	h := NewHTTPServer("", logger, nil, gate).Handler()

	w := do(t, h, http.MethodGet, "/auth", "tok", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewHTTPServer("", logging.NewNopLogger(), nil, failingGate{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + lis.Addr().String() + "/ping")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
