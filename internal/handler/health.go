package handler

import (
	"net/http"
	"time"

	"github.com/vidtube/backend/internal/httputil"
)

// HealthHandler answers liveness probes with the process uptime.
type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Check reports service health.
// GET /healthcheck
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, "Service is healthy")
}
