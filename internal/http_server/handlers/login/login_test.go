package login_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user_auth_service/internal/auth"
	"user_auth_service/internal/http_server/handlers/login"
	"user_auth_service/internal/lib/jwt"
	"user_auth_service/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) http.HandlerFunc {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	issuer := jwt.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
	store := memory.New()
	svc := auth.New(log, store, store, store, issuer)

	_, err := svc.Register(context.Background(), "Ann", "a@x.com", "secret1")
	require.NoError(t, err)

	return login.New(log, svc, 15*time.Minute, 168*time.Hour, false)
}

func doLogin(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)

	return rr
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	handler := newHandler(t)

	rr := doLogin(t, handler, `{"email":"a@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `"message":"Login successful"`)
	assert.Contains(t, body, `"email":"a@x.com"`)
	assert.NotContains(t, body, "password")

	var names []string
	for _, c := range rr.Result().Cookies() {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"accessToken", "refreshToken"}, names)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	handler := newHandler(t)

	wrongPass := doLogin(t, handler, `{"email":"a@x.com","password":"wrong"}`)
	noUser := doLogin(t, handler, `{"email":"nope@x.com","password":"anything"}`)

	// Both failures must be byte-identical so the response never reveals
	// whether an account exists.
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, http.StatusUnauthorized, noUser.Code)
	assert.Equal(t, wrongPass.Body.String(), noUser.Body.String())
	assert.Contains(t, wrongPass.Body.String(), "Invalid credentials")
}

func TestLogin_Validation(t *testing.T) {
	t.Parallel()

	handler := newHandler(t)

	rr := doLogin(t, handler, `{"email":"not-an-email","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid email")

	rr = doLogin(t, handler, `{"email":"a@x.com","password":""}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Password is required")
}
