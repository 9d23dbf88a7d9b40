package session

import (
	"net/http"
	"time"
)

const (
	// SessionCookie holds the signed session token for the cookie
	// backend, scoped to the whole app.
	SessionCookie = "session"

	// ClientIDCookie identifies a browser for the local backend. It
	// carries no authority; it only namespaces the key/value entries.
	ClientIDCookie = "client_id"
)

func setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
