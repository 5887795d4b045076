package handler

import (
	"net/http"

	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	overview, err := h.svc.Overview(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
