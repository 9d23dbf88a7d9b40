package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mavenapp/admin-gateway/internal/audit"
	apperrors "github.com/mavenapp/admin-gateway/internal/errors"
	"github.com/mavenapp/admin-gateway/internal/guard"
	"github.com/mavenapp/admin-gateway/internal/httputil"
	"github.com/mavenapp/admin-gateway/internal/middleware"
	"github.com/mavenapp/admin-gateway/internal/service"
	"github.com/mavenapp/admin-gateway/internal/session"
	"github.com/mavenapp/admin-gateway/internal/util"
)

type AuthHandler struct {
	authService      *service.AuthService
	store            session.Store
	loginRateLimiter *middleware.LoginRateLimiter
}

func NewAuthHandler(authService *service.AuthService, store session.Store) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		store:            store,
		loginRateLimiter: middleware.NewLoginRateLimiter(),
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.loginRateLimiter.Handler).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	return r
}

// Login exchanges email/password for a session. The session write
// completes before the response carries the redirect target, so a
// navigation issued by the client cannot race the persisted state.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	cred, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.GetCode(err) != apperrors.ErrCodeValidation {
			audit.LogFromRequest(r, audit.Event{
				Type:  audit.EventLoginFailure,
				Email: util.MaskEmail(req.Email),
			})
		}
		httputil.WriteError(w, err)
		return
	}

	if err := h.store.Create(w, r, cred); err != nil {
		log.Error().Err(err).Msg("failed to create session")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventLoginSuccess,
		UserID: cred.ID,
		Email:  util.MaskEmail(cred.Email),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"redirectTo": guard.AppPath,
	})
}

// Logout clears the persisted session only; the client performs the
// navigation using the returned target.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(w, r); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"redirectTo": guard.LoginPath,
	})
}

// Me returns the current identity claims, extending the session's
// validity window as a qualifying activity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cred := h.store.Read(r)
	if cred == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}

	h.store.Touch(w, r)

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":       cred.ID,
			"email":    cred.Email,
			"verified": cred.Verified,
		},
	})
}
