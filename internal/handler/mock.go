package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/service"
	"github.com/pimentellima/mockdata-server/internal/util"
)

// DefaultResultID serves a canned dataset so the mock API can be tried
// without an account.
const DefaultResultID = "default"

const defaultSampleJSON = `[{"id":1,"name":"Alice","country":"Brazil","city":"SaoPaulo","hobbies":["Reading","Cooking"]},{"id":2,"name":"Bob","country":"Brazil","city":"RiodeJaneiro","hobbies":["Hiking","Photography"]},{"id":3,"name":"Charlie","country":"Brazil","city":"SaoPaulo","hobbies":["Painting","Gardening"]},{"id":4,"name":"David","country":"Brazil","city":"Brasilia","hobbies":["Dancing","Swimming"]},{"id":5,"name":"Eve","country":"Brazil","city":"Salvador","hobbies":["Traveling","Yoga"]},{"id":6,"name":"Frank","country":"Brazil","city":"RiodeJaneiro","hobbies":["Cooking","Playingguitar"]},{"id":7,"name":"Grace","country":"Brazil","city":"SaoPaulo","hobbies":["Reading","Painting"]},{"id":8,"name":"Henry","country":"Brazil","city":"Brasilia","hobbies":["Hiking","Photography"]},{"id":9,"name":"Ivy","country":"Brazil","city":"Salvador","hobbies":["Gardening","Swimming"]},{"id":10,"name":"Jack","country":"Brazil","city":"RiodeJaneiro","hobbies":["Dancing","Yoga"]},{"id":11,"name":"Kate","country":"Brazil","city":"SaoPaulo","hobbies":["Traveling","Playingguitar"]},{"id":12,"name":"Liam","country":"Brazil","city":"Brasilia","hobbies":["Cooking","Painting"]},{"id":13,"name":"Mia","country":"Brazil","city":"Salvador","hobbies":["Reading","Photography"]},{"id":14,"name":"Noah","country":"Brazil","city":"RiodeJaneiro","hobbies":["Hiking","Swimming"]},{"id":15,"name":"Olivia","country":"Brazil","city":"SaoPaulo","hobbies":["Gardening","Yoga"]},{"id":16,"name":"Peter","country":"Brazil","city":"Brasilia","hobbies":["Dancing","Playingguitar"]},{"id":17,"name":"Quinn","country":"Brazil","city":"Salvador","hobbies":["Traveling","Painting"]},{"id":18,"name":"Ryan","country":"Brazil","city":"RiodeJaneiro","hobbies":["Cooking","Photography"]},{"id":19,"name":"Sophia","country":"Brazil","city":"SaoPaulo","hobbies":["Hiking","Swimming"]},{"id":20,"name":"Thomas","country":"Brazil","city":"Brasilia","hobbies":["Gardening","Yoga"]},{"id":21,"name":"Uma","country":"Brazil","city":"Salvador","hobbies":["Dancing","Playingguitar"]},{"id":22,"name":"Vincent","country":"Brazil","city":"RiodeJaneiro","hobbies":["Traveling","Painting"]},{"id":23,"name":"Wendy","country":"Brazil","city":"SaoPaulo","hobbies":["Cooking","Photography"]},{"id":24,"name":"Xavier","country":"Brazil","city":"Brasilia","hobbies":["Reading","Swimming"]},{"id":25,"name":"Yara","country":"Brazil","city":"Salvador","hobbies":["Hiking","Yoga"]}]`

// MockHandler serves persisted payloads to anonymous callers, so generated
// datasets can back a fake REST endpoint.
type MockHandler struct {
	datasetService *service.DatasetService
}

func NewMockHandler(datasetService *service.DatasetService) *MockHandler {
	return &MockHandler{datasetService: datasetService}
}

func (h *MockHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{resultID}", h.Read)
	return r
}

func (h *MockHandler) Read(w http.ResponseWriter, r *http.Request) {
	resultID := chi.URLParam(r, "resultID")
	recordID := r.URL.Query().Get("record_id")

	if resultID == DefaultResultID {
		h.writeRaw(w, json.RawMessage(defaultSampleJSON))
		return
	}

	if !util.IsValidUUID(resultID) {
		writeError(w, apperrors.NotFound("Result"))
		return
	}

	payload, err := h.datasetService.ReadPublic(r.Context(), resultID, recordID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeRaw(w, payload)
}

// writeRaw sends a payload that is already JSON without re-encoding it.
func (h *MockHandler) writeRaw(w http.ResponseWriter, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
