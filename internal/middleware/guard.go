package middleware

import (
	"net/http"

	"github.com/mavenapp/admin-gateway/internal/guard"
	"github.com/mavenapp/admin-gateway/internal/session"
)

// GuardMiddleware gates navigation to protected pages. It runs before
// any page handler and re-reads the session store on every request:
// decisions are never cached, because a session can expire or be
// revoked between navigations.
type GuardMiddleware struct {
	store session.Store
}

func NewGuardMiddleware(store session.Store) *GuardMiddleware {
	return &GuardMiddleware{store: store}
}

func (m *GuardMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticated := m.store.Read(r) != nil

		switch guard.Decide(r.URL.Path, authenticated) {
		case guard.RedirectToLogin:
			http.Redirect(w, r, guard.LoginPath, http.StatusFound)
		case guard.RedirectToApp:
			http.Redirect(w, r, guard.AppPath, http.StatusFound)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
