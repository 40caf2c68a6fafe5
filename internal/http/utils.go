package http

import (
	"encoding/json"
	"net/http"

	"github.com/contractdesk/contractdesk/internal/domain"
	"github.com/contractdesk/contractdesk/pkg/logger"
)

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service error onto its stable HTTP status and a
// short machine-readable message. Unclassified errors are logged and reported
// with the generic fallback, never with internal detail.
func writeServiceError(w http.ResponseWriter, l logger.Logger, err error, fallback string) {
	switch e := err.(type) {
	case domain.ValidationError:
		WriteJSONError(w, e.Message, http.StatusBadRequest)
	case *domain.ErrClientNotFound:
		WriteJSONError(w, "Client not found", http.StatusNotFound)
	case *domain.ErrContractNotFound:
		WriteJSONError(w, "Contract not found", http.StatusNotFound)
	case *domain.ErrEmailExists:
		WriteJSONError(w, "Email already exists", http.StatusConflict)
	case *domain.ErrConstraintViolation:
		WriteJSONError(w, "Request violates a data constraint", http.StatusConflict)
	default:
		l.WithField("error", err.Error()).Error(fallback)
		WriteJSONError(w, fallback, http.StatusInternalServerError)
	}
}
