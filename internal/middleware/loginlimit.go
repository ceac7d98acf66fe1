package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
)

const (
	credentialMaxAttempts   = 5
	credentialWindow        = time.Minute
	credentialCleanupPeriod = 5 * time.Minute
)

type credentialAttempt struct {
	count       int
	windowStart time.Time
}

// CredentialRateLimiter throttles password attempts per client address so the
// bcrypt check cannot be brute-forced. It is deliberately in-memory rather
// than redis-backed: credential throttling must keep working when redis is
// down, where the account limiters fail open.
type CredentialRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*credentialAttempt
	lastCleanup time.Time
	now         func() time.Time
}

func NewCredentialRateLimiter() *CredentialRateLimiter {
	return &CredentialRateLimiter{
		attempts:    make(map[string]*credentialAttempt),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// cleanup drops stale windows. Called under mu.
func (l *CredentialRateLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < credentialCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for ip, attempt := range l.attempts {
		if now.Sub(attempt.windowStart) > credentialWindow {
			delete(l.attempts, ip)
		}
	}
}

func (l *CredentialRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	attempt, exists := l.attempts[ip]
	if !exists || now.Sub(attempt.windowStart) > credentialWindow {
		l.attempts[ip] = &credentialAttempt{count: 1, windowStart: now}
		return true
	}

	if attempt.count >= credentialMaxAttempts {
		return false
	}

	attempt.count++
	return true
}

func (l *CredentialRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.allow(ip) {
			log.Warn().Str("ip", ip).Msg("credential rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(credentialWindow.Seconds())))
			writeError(w, apperrors.RateLimitExceeded())
			return
		}

		next.ServeHTTP(w, r)
	})
}
