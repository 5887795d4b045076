package handler

import (
	"net/http"

	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/editor"
	"github.com/formforge/formforge/internal/form"
	"github.com/formforge/formforge/internal/service"
	"github.com/go-chi/chi/v5"
)

// EditorHandler exposes the in-process editing sessions over HTTP. Every
// mutation applies synchronously to the session document; persistence
// happens behind the debounced pipeline.
type EditorHandler struct {
	manager       *editor.Manager
	forms         *service.FormService
	sampleDefault bool
}

func NewEditorHandler(manager *editor.Manager, forms *service.FormService, sampleDefault bool) *EditorHandler {
	return &EditorHandler{manager: manager, forms: forms, sampleDefault: sampleDefault}
}

// Open loads the form and starts an editing session over it.
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	f, err := h.forms.Get(r.Context(), claims.UserID, chi.URLParam(r, "formId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	doc, err := f.ToDocument()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s := h.manager.Open(doc)
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId": s.ID(),
		"document":  s.Document(),
	})
}

// session resolves the path session id and enforces that the caller owns the
// form under edit.
func (h *EditorHandler) session(w http.ResponseWriter, r *http.Request) *editor.Session {
	s, ok := h.manager.Get(chi.URLParam(r, "sessionId"))
	if !ok {
		writeError(w, http.StatusNotFound, "editor session not found")
		return nil
	}
	claims := auth.GetUser(r.Context())
	if s.Document().OwnerID != claims.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil
	}
	return s
}

func (h *EditorHandler) State(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	writeState(w, s)
}

type opRequest struct {
	Op          string              `json:"op"`
	Kind        form.Kind           `json:"kind,omitempty"`
	At          *int                `json:"at,omitempty"`
	QuestionID  string              `json:"questionId,omitempty"`
	Patch       *form.QuestionPatch `json:"patch,omitempty"`
	Page        form.PageType       `json:"page,omitempty"`
	PagePatch   *form.PagePatch     `json:"pagePatch,omitempty"`
	Settings    map[string]any      `json:"settings,omitempty"`
	Index       *int                `json:"index,omitempty"`
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
}

// Apply runs one editing operation against the session.
func (h *EditorHandler) Apply(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var req opRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch req.Op {
	case "addQuestion":
		at := -1
		if req.At != nil {
			at = *req.At
		}
		_, err = s.AddQuestion(req.Kind, at)
	case "updateQuestion":
		if req.Patch == nil {
			writeError(w, http.StatusBadRequest, "patch is required")
			return
		}
		err = s.UpdateQuestion(req.QuestionID, *req.Patch)
	case "removeQuestion":
		err = s.RemoveQuestion(req.QuestionID)
	case "duplicateQuestion":
		_, err = s.DuplicateQuestion(req.QuestionID)
	case "reorder":
		if req.Index == nil {
			writeError(w, http.StatusBadRequest, "index is required")
			return
		}
		err = s.Reorder(req.QuestionID, *req.Index)
	case "select":
		err = s.Select(req.QuestionID)
	case "updatePage":
		if req.PagePatch == nil {
			writeError(w, http.StatusBadRequest, "pagePatch is required")
			return
		}
		err = s.UpdatePage(req.Page, *req.PagePatch)
	case "updateSettings":
		err = s.UpdateSettings(req.Settings)
	case "updateMeta":
		err = s.UpdateMeta(req.Title, req.Description)
	default:
		writeError(w, http.StatusBadRequest, "unknown op "+req.Op)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeState(w, s)
}

// Flush forces the pending debounced write out and reports the result.
func (h *EditorHandler) Flush(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.Flush()
	writeState(w, s)
}

// Retry re-schedules the last snapshot after a failed save.
func (h *EditorHandler) Retry(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.Retry()
	writeState(w, s)
}

// Close flushes and tears the session down.
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	h.manager.Close(s.ID())
	writeJSON(w, http.StatusOK, map[string]string{"closed": s.ID()})
}

// Preview returns the document as the published form would render it. When
// the form has no questions and the sample fallback is requested, a demo
// document is returned instead, marked as such.
func (h *EditorHandler) Preview(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	doc := s.Document()
	sample := h.sampleDefault || r.URL.Query().Get("sample") == "1"
	if len(doc.Questions) == 0 && sample {
		writeJSON(w, http.StatusOK, map[string]any{
			"document": editor.SampleDocument(),
			"sample":   true,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document": doc,
		"sample":   false,
	})
}

// Palette lists the available question kinds in display order.
func (h *EditorHandler) Palette(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, form.Palette())
}

func writeState(w http.ResponseWriter, s *editor.Session) {
	var saveErr string
	if err := s.LastSaveErr(); err != nil {
		saveErr = err.Error()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document":  s.Document(),
		"selected":  s.Selected(),
		"dirty":     s.Dirty(),
		"saveError": saveErr,
	})
}
