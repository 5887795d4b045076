package handler

import (
	"net/http"

	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/service"
	"github.com/go-chi/chi/v5"
)

type FormHandler struct {
	svc *service.FormService
}

func NewFormHandler(svc *service.FormService) *FormHandler {
	return &FormHandler{svc: svc}
}

func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	workspaceID := r.URL.Query().Get("workspaceId")
	if workspaceID == "" {
		writeError(w, http.StatusBadRequest, "workspaceId query parameter is required")
		return
	}
	forms, err := h.svc.List(r.Context(), claims.UserID, workspaceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkspaceID string `json:"workspaceId"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := auth.GetUser(r.Context())
	f, err := h.svc.Create(r.Context(), claims.UserID, req.WorkspaceID, req.Title, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	f, err := h.svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "formId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FormHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Published bool `json:"published"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := auth.GetUser(r.Context())
	f, err := h.svc.SetPublished(r.Context(), claims.UserID, chi.URLParam(r, "formId"), req.Published)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FormHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := auth.GetUser(r.Context())
	f, err := h.svc.SetActive(r.Context(), claims.UserID, chi.URLParam(r, "formId"), req.Active)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	id := chi.URLParam(r, "formId")
	if err := h.svc.Delete(r.Context(), claims.UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
