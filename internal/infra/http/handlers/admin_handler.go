package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/residence-leads/internal/infra/http/middleware"
	"github.com/xavierca1/residence-leads/internal/usecase"
)

// AdminLeadHandler serves the triage inbox. Routes must sit behind the admin
// session middleware.
type AdminLeadHandler struct {
	TriageUC *usecase.TriageLeadUseCase
}

func NewAdminLeadHandler(uc *usecase.TriageLeadUseCase) *AdminLeadHandler {
	return &AdminLeadHandler{TriageUC: uc}
}

func (h *AdminLeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "limit must be a whole number")
		return
	}
	offset, err := queryInt(q.Get("offset"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "offset must be a whole number")
		return
	}

	output, err := h.TriageUC.List(r.Context(), usecase.ListLeadsInput{
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *AdminLeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.TriageUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *AdminLeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLeadBodyBytes)).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	input.ID = chi.URLParam(r, "id")

	if err := h.TriageUC.Update(r.Context(), input); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	if input.Status != nil {
		middleware.RecordStatusChange(*input.Status)
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
