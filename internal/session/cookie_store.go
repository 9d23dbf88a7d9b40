package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/mavenapp/admin-gateway/internal/config"
	"github.com/mavenapp/admin-gateway/internal/model"
	"github.com/mavenapp/admin-gateway/internal/repository"
	"github.com/mavenapp/admin-gateway/internal/util"
)

// Claims is the signed session payload. The verified flag is carried
// stringified, matching the local backend's userVerified entry.
type Claims struct {
	Token    string `json:"token"`
	Verified string `json:"verified"`
	Email    string `json:"email"`
	UserID   string `json:"id"`
	jwt.RegisteredClaims
}

// CookieStore is the server-held session backend: the credential is
// embedded in an HMAC-SHA256 signed token stored in an HTTP-only
// cookie, so route protection can run before any client code executes.
type CookieStore struct {
	secret      []byte
	revocations repository.RevokedSessionRepository
	secure      bool
	now         func() time.Time
}

func NewCookieStore(secret string, revocations repository.RevokedSessionRepository, secure bool) *CookieStore {
	return &CookieStore{
		secret:      []byte(secret),
		revocations: revocations,
		secure:      secure,
		now:         time.Now,
	}
}

func (s *CookieStore) Create(w http.ResponseWriter, r *http.Request, cred *model.Credential) error {
	tokenID, err := util.GenerateToken()
	if err != nil {
		return err
	}

	signed, err := s.sign(cred, tokenID)
	if err != nil {
		return err
	}

	setCookie(w, SessionCookie, signed, config.SessionTTL, s.secure)
	return nil
}

func (s *CookieStore) Read(r *http.Request) *model.Credential {
	claims := s.readClaims(r)
	if claims == nil {
		return nil
	}
	return credentialFromClaims(claims)
}

func (s *CookieStore) Touch(w http.ResponseWriter, r *http.Request) {
	claims := s.readClaims(r)
	if claims == nil {
		return
	}

	signed, err := s.sign(credentialFromClaims(claims), claims.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to re-sign session on touch")
		return
	}

	setCookie(w, SessionCookie, signed, config.SessionTTL, s.secure)
}

func (s *CookieStore) Delete(w http.ResponseWriter, r *http.Request) error {
	defer clearCookie(w, SessionCookie)

	claims := s.readClaims(r)
	if claims == nil {
		return nil
	}

	// Record the token ID so the signed cookie cannot be replayed
	// before its embedded expiry.
	expiresAt := s.now().Add(config.SessionTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	_, err := s.revocations.Create(r.Context(), model.CreateRevokedSessionParams{
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	})
	return err
}

func (s *CookieStore) IsAuthenticated(r *http.Request) bool {
	return s.readClaims(r) != nil
}

func (s *CookieStore) sign(cred *model.Credential, tokenID string) (string, error) {
	now := s.now()
	claims := &Claims{
		Token:    cred.Token,
		Verified: cred.VerifiedString(),
		Email:    cred.Email,
		UserID:   cred.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.SessionTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// readClaims verifies the session cookie. Absent, corrupted, expired
// and revoked sessions all read the same way: nil.
func (s *CookieStore) readClaims(r *http.Request) *Claims {
	value := cookieValue(r, SessionCookie)
	if value == "" {
		return nil
	}

	parsed, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		log.Debug().Err(err).Msg("failed to verify session")
		return nil
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		log.Debug().Msg("invalid session claims")
		return nil
	}

	if s.isRevoked(r.Context(), claims.ID) {
		return nil
	}

	return claims
}

func (s *CookieStore) isRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return true
	}
	revoked, err := s.revocations.FindByTokenID(ctx, tokenID)
	if err != nil {
		log.Error().Err(err).Msg("revocation lookup failed")
		return true
	}
	return revoked != nil
}

func credentialFromClaims(claims *Claims) *model.Credential {
	verified, _ := strconv.ParseBool(claims.Verified)
	return &model.Credential{
		Token:    claims.Token,
		Verified: verified,
		Email:    claims.Email,
		ID:       claims.UserID,
	}
}
