package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/middleware"
	"github.com/pimentellima/mockdata-server/internal/service"
	"github.com/pimentellima/mockdata-server/internal/util"
)

type CreditsHandler struct {
	accountService *service.AccountService
}

func NewCreditsHandler(accountService *service.AccountService) *CreditsHandler {
	return &CreditsHandler{accountService: accountService}
}

func (h *CreditsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Balance)
	return r
}

func (h *CreditsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	balanceMilli, err := h.accountService.Balance(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"credits":   service.CreditsDisplay(balanceMilli),
		"formatted": service.FormatCredits(balanceMilli),
	})
}

// BillingWebhook credits an account after a verified purchase event. The
// signature middleware in front of it has already authenticated the payload.
func (h *CreditsHandler) BillingWebhook(w http.ResponseWriter, r *http.Request) {
	var event struct {
		AccountID string `json:"accountId"`
		Credits   int64  `json:"credits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}
	if !util.IsValidUUID(event.AccountID) {
		writeError(w, apperrors.InvalidInput("accountId", "must be a valid UUID"))
		return
	}

	balanceMilli, err := h.accountService.TopUp(r.Context(), event.AccountID, event.Credits)
	if err != nil {
		log.Error().Err(err).Str("accountId", event.AccountID).Msg("billing webhook failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"credits": service.CreditsDisplay(balanceMilli),
	})
}
