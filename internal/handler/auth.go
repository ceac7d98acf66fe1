package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/middleware"
	"github.com/pimentellima/mockdata-server/internal/service"
)

type AuthHandler struct {
	accountService    *service.AccountService
	sessionService    *service.SessionService
	sessionMiddleware *middleware.SessionMiddleware
	credentialLimiter *middleware.CredentialRateLimiter
}

func NewAuthHandler(
	accountService *service.AccountService,
	sessionService *service.SessionService,
	sessionMiddleware *middleware.SessionMiddleware,
) *AuthHandler {
	return &AuthHandler{
		accountService:    accountService,
		sessionService:    sessionService,
		sessionMiddleware: sessionMiddleware,
		credentialLimiter: middleware.NewCredentialRateLimiter(),
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Password-bearing routes sit behind the credential limiter; signout
	// carries no secret to guess.
	r.With(h.credentialLimiter.Handler).Post("/signup", h.SignUp)
	r.With(h.credentialLimiter.Handler).Post("/signin", h.SignIn)
	r.Post("/signout", h.SignOut)

	return r
}

type credentialsRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"displayName,omitempty"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	account, err := h.accountService.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.startSession(w, r, account.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	account, err := h.accountService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.startSession(w, r, account.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// SignOut revokes the refresh token behind the session, then drops the
// cookie. It succeeds even without a valid session.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if artifact, err := h.sessionService.Decode(cookie.Value); err == nil {
			if err := h.sessionService.RevokeAll(r.Context(), artifact.AccountID); err != nil {
				log.Error().Err(err).Msg("signout: failed to revoke refresh tokens")
			}
		}
	}

	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, accountID string) error {
	artifact, err := h.sessionService.Issue(r.Context(), accountID)
	if err != nil {
		return err
	}

	encoded, err := h.sessionService.Encode(*artifact)
	if err != nil {
		return apperrors.Internal("Failed to encode session").WithCause(err)
	}

	h.sessionMiddleware.SetSessionCookie(w, encoded)
	return nil
}
