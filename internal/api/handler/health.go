package handler

import (
	"net/http"
	"time"
)

// Health reports liveness
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string "Service is up"
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
