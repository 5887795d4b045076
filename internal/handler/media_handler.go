package handler

import (
	"net/http"

	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/media"
	"github.com/formforge/formforge/internal/service"
	"github.com/go-chi/chi/v5"
)

type MediaHandler struct {
	svc *service.MediaService
}

func NewMediaHandler(svc *service.MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// Upload accepts one multipart image for a form and returns its public URL.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	formID := chi.URLParam(r, "formId")

	if err := r.ParseMultipartForm(media.MaxUploadSize + 1024); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	url, err := h.svc.Upload(r.Context(), claims.UserID, formID,
		header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// Delete removes an uploaded asset by the URL Upload returned.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := readJSON(r, &req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	claims := auth.GetUser(r.Context())
	formID := chi.URLParam(r, "formId")
	if err := h.svc.Delete(r.Context(), claims.UserID, formID, req.URL); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": req.URL})
}
