package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mavenapp/admin-gateway/internal/audit"
)

const (
	loginMaxAttempts    = 5
	loginWindowDuration = time.Minute
	loginCleanupPeriod  = 5 * time.Minute
)

type loginAttempt struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter bounds login attempts per client IP with a fixed
// window. State is in-memory; a restart resets the counters.
type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	lastCleanup time.Time
}

func NewLoginRateLimiter() *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts:    make(map[string]*loginAttempt),
		lastCleanup: time.Now(),
	}
}

func (l *LoginRateLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < loginCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for ip, attempt := range l.attempts {
		if now.Sub(attempt.windowStart) > loginWindowDuration {
			delete(l.attempts, ip)
		}
	}
}

// check records an attempt for ip. When the attempt is over the limit
// it returns false plus how long the client has to wait before the
// window resets.
func (l *LoginRateLimiter) check(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.cleanup(now)

	attempt, exists := l.attempts[ip]
	if !exists || now.Sub(attempt.windowStart) > loginWindowDuration {
		l.attempts[ip] = &loginAttempt{count: 1, windowStart: now}
		return true, 0
	}

	if attempt.count >= loginMaxAttempts {
		return false, loginWindowDuration - now.Sub(attempt.windowStart)
	}

	attempt.count++
	return true, 0
}

func (l *LoginRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			ip = forwarded
		}

		allowed, retryAfter := l.check(ip)
		if !allowed {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventRateLimitExceed})
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many login attempts. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
