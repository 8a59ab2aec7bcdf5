package handlers

import (
	"context"
	"net/http"
	"time"

	"social-server/middleware"
	"social-server/storage"
	"social-server/utils/errors"
)

type HealthHandler struct {
	store storage.Pinger
}

func NewHealthHandler(store storage.Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		middleware.WriteError(w, errors.Wrap(err, "STORE_UNAVAILABLE", "Data store unreachable", http.StatusServiceUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
