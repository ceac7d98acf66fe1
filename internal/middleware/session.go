package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/session"
)

const SessionCookieName = "session"

type contextKey string

const AccountIDContextKey contextKey = "accountID"

// GetAccountID returns the authenticated account id, or "" for anonymous
// requests.
func GetAccountID(ctx context.Context) string {
	if id, ok := ctx.Value(AccountIDContextKey).(string); ok {
		return id
	}
	return ""
}

// SessionCodec is the slice of the session service the middleware needs.
type SessionCodec interface {
	Decode(raw string) (*session.Artifact, error)
	Encode(artifact session.Artifact) (string, error)
	Refresh(ctx context.Context, tokenValue string) (*session.Artifact, error)
}

// SessionMiddleware authenticates requests from the signed session cookie.
// Inside the access window the artifact alone proves identity; once the
// window lapses the embedded refresh token is exchanged for a new artifact
// and the cookie is reissued in the response.
type SessionMiddleware struct {
	sessions  SessionCodec
	cookieTTL time.Duration
	secure    bool
}

func NewSessionMiddleware(sessions SessionCodec, cookieTTL time.Duration, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		sessions:  sessions,
		cookieTTL: cookieTTL,
		secure:    secure,
	}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, apperrors.Unauthenticated("Missing session"))
			return
		}

		artifact, err := m.sessions.Decode(cookie.Value)
		if err != nil {
			log.Warn().Msg("session middleware: invalid session cookie")
			ClearSessionCookie(w)
			writeError(w, apperrors.Unauthenticated("Invalid session"))
			return
		}

		if artifact.AccessValid(time.Now()) {
			ctx := context.WithValue(r.Context(), AccountIDContextKey, artifact.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// Access window lapsed; fall back to the refresh token.
		renewed, err := m.sessions.Refresh(r.Context(), artifact.RefreshToken)
		if err != nil {
			if code := apperrors.GetCode(err); code == apperrors.ErrCodeRefreshTokenNotFound ||
				code == apperrors.ErrCodeRefreshTokenExpired {
				ClearSessionCookie(w)
			}
			writeError(w, err)
			return
		}

		encoded, err := m.sessions.Encode(*renewed)
		if err != nil {
			log.Error().Err(err).Msg("session middleware: failed to encode renewed session")
			writeError(w, apperrors.Internal("Session renewal failed"))
			return
		}
		m.SetSessionCookie(w, encoded)

		ctx := context.WithValue(r.Context(), AccountIDContextKey, renewed.AccountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
