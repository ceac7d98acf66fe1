package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pimentellima/mockdata-server/internal/middleware"
	"github.com/pimentellima/mockdata-server/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	sessionService *service.SessionService
}

func NewAccountHandler(accountService *service.AccountService, sessionService *service.SessionService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		sessionService: sessionService,
	}
}

func (h *AccountHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Delete("/", h.Delete)
	return r
}

// Delete removes the authenticated account. Runs, results, and refresh
// tokens go with it through foreign-key cascades.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	if err := h.sessionService.RevokeAll(r.Context(), accountID); err != nil {
		log.Error().Err(err).Str("accountId", accountID).Msg("account delete: failed to revoke tokens")
	}

	if err := h.accountService.Delete(r.Context(), accountID); err != nil {
		writeError(w, err)
		return
	}

	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
