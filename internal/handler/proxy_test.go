package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavenapp/admin-gateway/internal/model"
	"github.com/mavenapp/admin-gateway/internal/session"
)

type capturedRequest struct {
	path          string
	authorization string
	cookie        string
}

func newProxyFixture(t *testing.T) (*APIProxy, *session.CookieStore, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.authorization = r.Header.Get("Authorization")
		captured.cookie = r.Header.Get("Cookie")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	t.Cleanup(backend.Close)

	store := session.NewCookieStore("test-secret-test-secret-test-secret", newMemRevocations(), false)
	proxy, err := NewAPIProxy(backend.URL, store)
	require.NoError(t, err)
	return proxy, store, captured
}

func sessionRequest(t *testing.T, store *session.CookieStore, token, method, path string) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	err := store.Create(rec, httptest.NewRequest("POST", "/auth/api/login", nil), &model.Credential{
		Token:    token,
		Verified: true,
		Email:    "admin@example.com",
		ID:       "admin-1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestAPIProxy(t *testing.T) {
	t.Run("injects the current bearer token and strips cookies", func(t *testing.T) {
		proxy, store, captured := newProxyFixture(t)

		rec := httptest.NewRecorder()
		proxy.ServeHTTP(rec, sessionRequest(t, store, "bearer-token-1", "GET", "/api/jets"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/jets", captured.path)
		assert.Equal(t, "Bearer bearer-token-1", captured.authorization)
		assert.Empty(t, captured.cookie, "session cookies must not leak to the backend")
	})

	t.Run("unauthenticated requests get a 401 body, not a redirect", func(t *testing.T) {
		proxy, _, captured := newProxyFixture(t)

		rec := httptest.NewRecorder()
		proxy.ServeHTTP(rec, httptest.NewRequest("GET", "/api/jets", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Empty(t, captured.path, "backend must not be reached")
	})

	t.Run("token is read per request, not captured at construction", func(t *testing.T) {
		proxy, store, captured := newProxyFixture(t)

		rec := httptest.NewRecorder()
		proxy.ServeHTTP(rec, sessionRequest(t, store, "first-token", "GET", "/api/bookings"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Bearer first-token", captured.authorization)

		// A later login produces a different session; the proxy must
		// forward the new token without being rebuilt.
		rec = httptest.NewRecorder()
		proxy.ServeHTTP(rec, sessionRequest(t, store, "second-token", "GET", "/api/bookings"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Bearer second-token", captured.authorization)
	})

	t.Run("unreachable backend maps to a network error", func(t *testing.T) {
		store := session.NewCookieStore("test-secret-test-secret-test-secret", newMemRevocations(), false)
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()

		proxy, err := NewAPIProxy(dead.URL, store)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		proxy.ServeHTTP(rec, sessionRequest(t, store, "bearer-token-1", "GET", "/api/jets"))

		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var resp struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "NETWORK_ERROR", resp.Code)
	})
}
