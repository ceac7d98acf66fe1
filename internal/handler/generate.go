package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/middleware"
	"github.com/pimentellima/mockdata-server/internal/model"
	"github.com/pimentellima/mockdata-server/internal/service"
)

type GenerateHandler struct {
	generationService *service.GenerationService
}

func NewGenerateHandler(generationService *service.GenerationService) *GenerateHandler {
	return &GenerateHandler{generationService: generationService}
}

func (h *GenerateHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Generate)
	return r
}

type generateResponse struct {
	RunID            string              `json:"runId"`
	Results          []model.NamedResult `json:"results"`
	CreditsSpent     float64             `json:"creditsSpent"`
	CreditsRemaining float64             `json:"creditsRemaining"`
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	outcome, err := h.generationService.Generate(r.Context(), accountID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, generateResponse{
		RunID:            outcome.RunID,
		Results:          outcome.Results,
		CreditsSpent:     service.CreditsDisplay(outcome.CostMilli),
		CreditsRemaining: service.CreditsDisplay(outcome.CreditsLeft),
	})
}
