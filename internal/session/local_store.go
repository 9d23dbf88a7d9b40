package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mavenapp/admin-gateway/internal/config"
	"github.com/mavenapp/admin-gateway/internal/model"
	"github.com/mavenapp/admin-gateway/internal/redis"
	"github.com/mavenapp/admin-gateway/internal/util"
)

// Local store entry names, mirroring the SPA's localStorage keys.
const (
	keyAuthToken    = "authToken"
	keyUserEmail    = "userEmail"
	keyUserID       = "userId"
	keyUserVerified = "userVerified"
)

// KV is the minimal key/value surface the local backend needs. Redis
// implements it in production; tests use an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// LocalStore is the client-local session backend: the credential is
// kept as four independent per-client entries. There is no atomicity
// across the four writes; callers must treat partial state as
// unauthenticated, which Read enforces by requiring the token entry.
type LocalStore struct {
	kv     KV
	secure bool
}

func NewLocalStore(kv KV, secure bool) *LocalStore {
	return &LocalStore{kv: kv, secure: secure}
}

func (s *LocalStore) Create(w http.ResponseWriter, r *http.Request, cred *model.Credential) error {
	clientID := cookieValue(r, ClientIDCookie)
	if clientID == "" {
		var err error
		clientID, err = util.GenerateToken()
		if err != nil {
			return err
		}
		setCookie(w, ClientIDCookie, clientID, config.SessionTTL, s.secure)
	}

	ctx := r.Context()
	entries := map[string]string{
		keyAuthToken:    cred.Token,
		keyUserEmail:    cred.Email,
		keyUserID:       cred.ID,
		keyUserVerified: cred.VerifiedString(),
	}
	for field, value := range entries {
		if err := s.kv.Set(ctx, s.key(clientID, field), value, config.SessionTTL); err != nil {
			return err
		}
	}
	return nil
}

// Read returns a Credential only when the token entry is present and
// non-empty. Other fields default when missing.
func (s *LocalStore) Read(r *http.Request) *model.Credential {
	clientID := cookieValue(r, ClientIDCookie)
	if clientID == "" {
		return nil
	}

	ctx := r.Context()
	token, err := s.kv.Get(ctx, s.key(clientID, keyAuthToken))
	if err != nil {
		log.Error().Err(err).Msg("local session read failed")
		return nil
	}
	if token == "" {
		return nil
	}

	email, _ := s.kv.Get(ctx, s.key(clientID, keyUserEmail))
	userID, _ := s.kv.Get(ctx, s.key(clientID, keyUserID))
	verifiedStr, _ := s.kv.Get(ctx, s.key(clientID, keyUserVerified))
	verified, _ := strconv.ParseBool(verifiedStr)

	return &model.Credential{
		Token:    token,
		Verified: verified,
		Email:    email,
		ID:       userID,
	}
}

// Touch re-applies the TTL on the entries that exist.
func (s *LocalStore) Touch(w http.ResponseWriter, r *http.Request) {
	cred := s.Read(r)
	if cred == nil {
		return
	}
	clientID := cookieValue(r, ClientIDCookie)

	ctx := r.Context()
	entries := map[string]string{
		keyAuthToken:    cred.Token,
		keyUserEmail:    cred.Email,
		keyUserID:       cred.ID,
		keyUserVerified: cred.VerifiedString(),
	}
	for field, value := range entries {
		if err := s.kv.Set(ctx, s.key(clientID, field), value, config.SessionTTL); err != nil {
			log.Error().Err(err).Msg("local session touch failed")
			return
		}
	}
}

func (s *LocalStore) Delete(w http.ResponseWriter, r *http.Request) error {
	clientID := cookieValue(r, ClientIDCookie)
	if clientID == "" {
		return nil
	}
	return s.kv.Del(r.Context(),
		s.key(clientID, keyAuthToken),
		s.key(clientID, keyUserEmail),
		s.key(clientID, keyUserID),
		s.key(clientID, keyUserVerified),
	)
}

// IsAuthenticated is a cheap existence check on the token entry, not a
// validity check: an expired backend token still reads authenticated
// until an API call is rejected.
func (s *LocalStore) IsAuthenticated(r *http.Request) bool {
	clientID := cookieValue(r, ClientIDCookie)
	if clientID == "" {
		return false
	}
	token, err := s.kv.Get(r.Context(), s.key(clientID, keyAuthToken))
	if err != nil {
		log.Error().Err(err).Msg("local session check failed")
		return false
	}
	return token != ""
}

func (s *LocalStore) key(clientID, field string) string {
	return redis.SessionKey(clientID, field)
}

// RedisKV adapts the redis client to the KV interface.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return value, err
}

func (r *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}
