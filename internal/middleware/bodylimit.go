package middleware

import (
	"net/http"

	"github.com/pimentellima/mockdata-server/internal/config"
	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
)

// BodyLimitMiddleware caps inbound payloads. Generation requests stay small
// once type definitions and counts are validated, so anything near the cap is
// noise or abuse.
type BodyLimitMiddleware struct {
	maxBytes int64
}

// NewBodyLimitMiddleware builds a limiter; maxBytes <= 0 selects
// config.MaxRequestBodyBytes.
func NewBodyLimitMiddleware(maxBytes int64) *BodyLimitMiddleware {
	if maxBytes <= 0 {
		maxBytes = config.MaxRequestBodyBytes
	}
	return &BodyLimitMiddleware{maxBytes: maxBytes}
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Declared length is rejected up front; MaxBytesReader covers
		// chunked bodies that never declare one.
		if r.ContentLength > m.maxBytes {
			writeError(w, apperrors.PayloadTooLarge())
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, m.maxBytes)
		next.ServeHTTP(w, r)
	})
}
