package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavenapp/admin-gateway/internal/backend"
	apperrors "github.com/mavenapp/admin-gateway/internal/errors"
)

func newAuthService(t *testing.T, handler http.HandlerFunc) (*AuthService, *int64) {
	t.Helper()
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return NewAuthService(backend.NewClient(server.URL, 10*time.Second)), &calls
}

func loginOK(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"token": map[string]any{
			"token":    "abc.def.ghi",
			"verified": false,
			"email":    "admin@example.com",
			"id":       "u1",
		},
	})
}

func TestSignIn(t *testing.T) {
	t.Run("returns credential on success", func(t *testing.T) {
		svc, _ := newAuthService(t, loginOK)

		cred, err := svc.SignIn(context.Background(), "admin@example.com", "Passw0rd!")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", cred.Token)
		assert.Equal(t, "admin@example.com", cred.Email)
		assert.Equal(t, "u1", cred.ID)
		assert.False(t, cred.Verified)
	})

	t.Run("malformed email never reaches the network", func(t *testing.T) {
		svc, calls := newAuthService(t, loginOK)

		for _, email := range []string{"", "admin", "admin@", "@example.com"} {
			_, err := svc.SignIn(context.Background(), email, "Passw0rd!")
			require.Error(t, err)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)

			fields, ok := appErr.Details.(apperrors.FieldErrors)
			require.True(t, ok)
			assert.NotEmpty(t, fields.Email)
			assert.Empty(t, fields.Password)
		}
		assert.Zero(t, atomic.LoadInt64(calls))
	})

	t.Run("weak password never reaches the network", func(t *testing.T) {
		svc, calls := newAuthService(t, loginOK)

		for _, password := range []string{"short1!", "12345678!", "Password!", "Passw0rd"} {
			_, err := svc.SignIn(context.Background(), "admin@example.com", password)
			require.Error(t, err)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)

			fields, ok := appErr.Details.(apperrors.FieldErrors)
			require.True(t, ok)
			assert.Empty(t, fields.Email)
			assert.NotEmpty(t, fields.Password)
		}
		assert.Zero(t, atomic.LoadInt64(calls))
	})

	t.Run("both fields invalid reports both", func(t *testing.T) {
		svc, calls := newAuthService(t, loginOK)

		_, err := svc.SignIn(context.Background(), "nope", "nope")
		require.Error(t, err)
		appErr, _ := apperrors.AsAppError(err)
		fields := appErr.Details.(apperrors.FieldErrors)
		assert.NotEmpty(t, fields.Email)
		assert.NotEmpty(t, fields.Password)
		assert.Zero(t, atomic.LoadInt64(calls))
	})

	t.Run("valid input issues exactly one request", func(t *testing.T) {
		svc, calls := newAuthService(t, loginOK)

		_, err := svc.SignIn(context.Background(), "admin@example.com", "Passw0rd!")
		require.NoError(t, err)
		assert.Equal(t, int64(1), atomic.LoadInt64(calls))
	})

	t.Run("no retry on rejection", func(t *testing.T) {
		svc, calls := newAuthService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
		})

		_, err := svc.SignIn(context.Background(), "admin@example.com", "Passw0rd!")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidCredentials, apperrors.GetCode(err))
		assert.Equal(t, int64(1), atomic.LoadInt64(calls))
	})

	t.Run("trims email whitespace before sending", func(t *testing.T) {
		var gotEmail string
		svc, _ := newAuthService(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			gotEmail = body["email"]
			loginOK(w, r)
		})

		_, err := svc.SignIn(context.Background(), "  admin@example.com  ", "Passw0rd!")
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", gotEmail)
	})
}

func TestValidate(t *testing.T) {
	svc := NewAuthService(backend.NewClient("http://localhost:0", time.Second))

	t.Run("slices are always non-nil", func(t *testing.T) {
		fields := svc.Validate("admin@example.com", "Passw0rd!")
		assert.NotNil(t, fields.Email)
		assert.NotNil(t, fields.Password)
		assert.True(t, fields.Empty())
	})
}
