package session

import (
	"net/http"

	"github.com/mavenapp/admin-gateway/internal/model"
)

// Store persists the Credential for the lifetime of a session. Exactly
// one implementation is active per deployment; the route guard and the
// auth handlers always go through the same instance.
//
// Store only persists. Navigation after login/logout belongs to the
// calling handler, so the store stays testable without a router.
type Store interface {
	// Create durably writes the credential. It must complete before
	// the caller issues any navigation that depends on the session.
	Create(w http.ResponseWriter, r *http.Request, cred *model.Credential) error

	// Read returns the current credential, or nil when the session is
	// absent, corrupted, expired or revoked. Decode failures are
	// logged, never surfaced as errors.
	Read(r *http.Request) *model.Credential

	// Touch extends the session's validity window on activity. No-op
	// when there is no valid session.
	Touch(w http.ResponseWriter, r *http.Request)

	// Delete removes all persisted session state.
	Delete(w http.ResponseWriter, r *http.Request) error

	// IsAuthenticated reports whether a session is present. For the
	// cookie backend this implies validity; for the local backend it
	// is a bare existence check on the token entry.
	IsAuthenticated(r *http.Request) bool
}
