package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mavenapp/admin-gateway/internal/backend"
	apperrors "github.com/mavenapp/admin-gateway/internal/errors"
	"github.com/mavenapp/admin-gateway/internal/model"
	"github.com/mavenapp/admin-gateway/internal/util"
)

// AuthService converts admin email/password into a Credential against
// the platform backend. Persistence belongs to the session store; the
// service has no side effects beyond the one login call.
type AuthService struct {
	backend *backend.Client
}

func NewAuthService(client *backend.Client) *AuthService {
	return &AuthService{backend: client}
}

// Validate runs the local pre-network checks and returns the per-field
// violations. No network call happens while any field is invalid.
func (s *AuthService) Validate(email, password string) apperrors.FieldErrors {
	return apperrors.FieldErrors{
		Email:    util.ValidateEmail(email),
		Password: util.ValidatePassword(password),
	}
}

// SignIn validates locally, then issues one login request. No retries:
// resubmission is the caller's decision.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.Credential, error) {
	email = strings.TrimSpace(email)

	if fields := s.Validate(email, password); !fields.Empty() {
		return nil, apperrors.Validation(fields)
	}

	cred, err := s.backend.AdminLogin(ctx, email, password)
	if err != nil {
		log.Debug().
			Str("email", util.MaskEmail(email)).
			Str("code", string(apperrors.GetCode(err))).
			Msg("admin login rejected")
		return nil, err
	}

	return cred, nil
}
