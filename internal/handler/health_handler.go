package handler

import (
	"context"
	"net/http"

	"github.com/formforge/formforge/internal/docstore"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports reachability of the backing stores.
type HealthHandler struct {
	store    docstore.Store
	sessions pinger
}

func NewHealthHandler(store docstore.Store, sessions pinger) *HealthHandler {
	return &HealthHandler{store: store, sessions: sessions}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	docs := "ok"
	if err := h.store.Ping(r.Context()); err != nil {
		docs = err.Error()
		status = http.StatusServiceUnavailable
	}
	redis := "ok"
	if h.sessions != nil {
		if err := h.sessions.Ping(r.Context()); err != nil {
			redis = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, map[string]string{
		"docstore": docs,
		"redis":    redis,
	})
}
