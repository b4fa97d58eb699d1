package handlers

import (
	"log/slog"
	"net/http"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Ping(r.Context()).Err(); err != nil {
		slog.Error("cache health check failed", "err", err)
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}
