package handler

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/mavenapp/admin-gateway/internal/errors"
	gwhttputil "github.com/mavenapp/admin-gateway/internal/httputil"
	"github.com/mavenapp/admin-gateway/internal/session"
)

// APIProxy forwards the dashboard's CRUD calls to the platform
// backend. The bearer credential is looked up fresh from the session
// store on every request instead of being captured once at client
// construction, so it can never go stale across login/logout.
type APIProxy struct {
	target *url.URL
	store  session.Store
	proxy  *httputil.ReverseProxy
}

func NewAPIProxy(baseURL string, store session.Store) (*APIProxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	p := &APIProxy{target: target, store: store}
	p.proxy = &httputil.ReverseProxy{
		Director: p.direct,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("backend proxy error")
			gwhttputil.WriteError(w, apperrors.Network(err))
		},
	}
	return p, nil
}

// ServeHTTP is an XHR surface: an absent or invalid session yields a
// 401 body, never a redirect.
func (p *APIProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p.store.Read(r) == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}
	p.proxy.ServeHTTP(w, r)
}

func (p *APIProxy) direct(req *http.Request) {
	// The outbound clone still carries the inbound cookies, so the
	// store can be consulted here for the current token.
	cred := p.store.Read(req)

	req.URL.Scheme = p.target.Scheme
	req.URL.Host = p.target.Host
	req.Host = p.target.Host
	req.URL.Path = strings.TrimPrefix(req.URL.Path, "/api")
	if req.URL.Path == "" {
		req.URL.Path = "/"
	}

	req.Header.Del("Cookie")
	if cred != nil {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
}
