package handlers

import (
	"net/http"

	"github.com/josmany3000/Render-videos04/internal/httpkit"
)

// GetLiveness answers the root probe used by uptime monitors.
func (h *Handlers) GetLiveness(w http.ResponseWriter, _ *http.Request) {
	httpkit.WriteText(w, http.StatusOK, "Video rendering service is running.")
}

// GetHealth reports service health and the active storage provider.
func (h *Handlers) GetHealth(w http.ResponseWriter, _ *http.Request) {
	httpkit.WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"service":  "render-videos",
		"provider": h.providerName,
	})
}
