package middleware

import (
	"net/http"

	"github.com/mavenapp/admin-gateway/internal/audit"
	"github.com/mavenapp/admin-gateway/internal/config"
	"github.com/mavenapp/admin-gateway/internal/util"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRFMiddleware protects state-changing requests with the
// double-submit cookie pattern: the token cookie is readable by the
// SPA, which must echo it in the X-CSRF-Token header.
type CSRFMiddleware struct {
	isProduction bool
}

func NewCSRFMiddleware(isProduction bool) *CSRFMiddleware {
	return &CSRFMiddleware{isProduction: isProduction}
}

func (m *CSRFMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CSRFCookieName)
		if err != nil || cookie.Value == "" {
			token, err := util.GenerateToken()
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error": "Failed to generate security token",
				})
				return
			}
			m.setCSRFCookie(w, token)
			cookie = &http.Cookie{Value: token}
		}

		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		headerToken := r.Header.Get(CSRFHeaderName)
		if headerToken == "" || !util.ConstantTimeEqual(cookie.Value, headerToken) {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventCSRFFailure})
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error": "Invalid CSRF token",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *CSRFMiddleware) setCSRFCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.SessionTTL.Seconds()),
		HttpOnly: false, // the SPA reads it to echo the header
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}
