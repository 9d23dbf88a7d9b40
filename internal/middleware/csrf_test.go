package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler() http.Handler {
	m := NewCSRFMiddleware(false)
	return m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func csrfCookie(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/auth", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	t.Fatal("csrf cookie not issued")
	return nil
}

func TestCSRFMiddleware(t *testing.T) {
	t.Run("issues a readable token cookie on first request", func(t *testing.T) {
		cookie := csrfCookie(t, csrfHandler())

		assert.NotEmpty(t, cookie.Value)
		assert.False(t, cookie.HttpOnly)
	})

	t.Run("safe methods pass without the header", func(t *testing.T) {
		handler := csrfHandler()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/dashboard", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("state-changing request without the header is rejected", func(t *testing.T) {
		handler := csrfHandler()
		cookie := csrfCookie(t, handler)

		req := httptest.NewRequest("POST", "/auth/api/login", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("matching cookie and header pass", func(t *testing.T) {
		handler := csrfHandler()
		cookie := csrfCookie(t, handler)

		req := httptest.NewRequest("POST", "/auth/api/login", nil)
		req.AddCookie(cookie)
		req.Header.Set(CSRFHeaderName, cookie.Value)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("mismatched header is rejected", func(t *testing.T) {
		handler := csrfHandler()
		cookie := csrfCookie(t, handler)

		req := httptest.NewRequest("POST", "/auth/api/login", nil)
		req.AddCookie(cookie)
		req.Header.Set(CSRFHeaderName, "forged-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
