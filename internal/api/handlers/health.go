package handlers

import (
	"net/http"
	"time"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "openrouter-proxy"

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

// Health handles GET /health. It reports liveness only.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK:      true,
		Service: ServiceName,
		Time:    h.now().UTC().Format(time.RFC3339),
	})
}
