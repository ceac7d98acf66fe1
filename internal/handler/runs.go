package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/middleware"
	"github.com/pimentellima/mockdata-server/internal/service"
	"github.com/pimentellima/mockdata-server/internal/util"
)

type RunsHandler struct {
	datasetService *service.DatasetService
}

func NewRunsHandler(datasetService *service.DatasetService) *RunsHandler {
	return &RunsHandler{datasetService: datasetService}
}

func (h *RunsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/count", h.Count)
	r.Patch("/{runID}/visibility", h.SetVisibility)
	r.Delete("/{runID}", h.Delete)

	return r
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	pagination := ParsePagination(r)

	runs, err := h.datasetService.ListRuns(r.Context(), accountID, pagination.Limit, pagination.Offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":   runs,
		"limit":  pagination.Limit,
		"offset": pagination.Offset,
	})
}

func (h *RunsHandler) Count(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	count, err := h.datasetService.CountRuns(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *RunsHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if !util.IsValidUUID(runID) {
		writeError(w, apperrors.InvalidInput("runID", "must be a valid UUID"))
		return
	}

	var req struct {
		APIVisible *bool `json:"apiVisible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIVisible == nil {
		writeError(w, apperrors.MissingRequired("apiVisible"))
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if err := h.datasetService.SetVisibility(r.Context(), runID, accountID, *req.APIVisible); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *RunsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if !util.IsValidUUID(runID) {
		writeError(w, apperrors.InvalidInput("runID", "must be a valid UUID"))
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if err := h.datasetService.DeleteRun(r.Context(), runID, accountID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
