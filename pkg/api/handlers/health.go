package handlers

import (
	"net/http"

	"github.com/marmos91/sysauth/pkg/identity"
)

// HealthHandler handles the liveness endpoint.
type HealthHandler struct {
	store identity.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store identity.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Liveness handles GET /health.
//
// Returns 200 OK with the number of loaded records as long as the HTTP
// server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	records := 0
	if h.store != nil {
		records = h.store.Count()
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]any{
		"service": "sysauth",
		"records": records,
	}))
}
