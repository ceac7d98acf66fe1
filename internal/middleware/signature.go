package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pimentellima/mockdata-server/internal/util"
)

const BillingSignatureHeader = "X-Billing-Signature"

// BillingSignatureMiddleware authenticates billing provider webhooks with an
// HMAC over the raw body. The body is restored for the handler to parse.
type BillingSignatureMiddleware struct {
	secret string
}

func NewBillingSignatureMiddleware(secret string) *BillingSignatureMiddleware {
	return &BillingSignatureMiddleware{secret: secret}
}

func (m *BillingSignatureMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			log.Warn().Msg("billing signature verification bypassed: BILLING_WEBHOOK_SECRET is not configured")
			next.ServeHTTP(w, r)
			return
		}

		signature := r.Header.Get(BillingSignatureHeader)
		if signature == "" {
			log.Warn().Msg("billing signature middleware: missing signature header")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing signature",
			})
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error().Err(err).Msg("billing signature middleware: failed to read body")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Failed to read request body",
			})
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		computed := util.HmacSHA256(m.secret, string(body))
		if !util.ConstantTimeEqual(computed, signature) {
			log.Warn().Msg("billing signature middleware: invalid signature")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid signature",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
