package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RootHandler serves the service index
type RootHandler struct {
	version string
}

func NewRootHandler(version string) *RootHandler {
	return &RootHandler{
		version: version,
	}
}

func (h *RootHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
}

func (h *RootHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "contractdesk API is running",
		"version": h.version,
		"endpoints": map[string]string{
			"clients":   "/api/clients",
			"contracts": "/api/contracts",
		},
	})
}
