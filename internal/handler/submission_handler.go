package handler

import (
	"net/http"
	"strconv"

	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/service"
	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	svc   *service.SubmissionService
	forms *service.FormService
}

func NewSubmissionHandler(svc *service.SubmissionService, forms *service.FormService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, forms: forms}
}

// PublicForm renders a published form for respondents. No authentication.
func (h *SubmissionHandler) PublicForm(w http.ResponseWriter, r *http.Request) {
	f, err := h.forms.FindPublic(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	doc, err := f.ToDocument()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Respondents never see owner or counter internals.
	doc.OwnerID = ""
	doc.SubmissionCount = 0
	writeJSON(w, http.StatusOK, doc)
}

// SubmitPublic accepts a response to a published form. No authentication.
func (h *SubmissionHandler) SubmitPublic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers map[string]any `json:"answers"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := h.svc.SubmitPublic(r.Context(), chi.URLParam(r, "slug"), req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	formID := chi.URLParam(r, "formId")
	subs, err := h.svc.List(r.Context(), claims.UserID, formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	total, err := h.svc.CountByForm(r.Context(), claims.UserID, formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"total":       total,
	})
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	sub, err := h.svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "subId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	id := chi.URLParam(r, "subId")
	if err := h.svc.Delete(r.Context(), claims.UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// Search runs a text search over the caller's submissions.
func (h *SubmissionHandler) Search(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.svc.Search(r.Context(), claims.UserID, query, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": hits,
		"total":       len(hits),
	})
}
