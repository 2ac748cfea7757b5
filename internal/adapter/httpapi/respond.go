package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("failed to encode response", "error", err)
	}
}

func sendJSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// sendDomainError maps domain errors to HTTP status codes. Validation
// failures carry their machine-readable reason so the client can react to
// them without parsing messages.
func sendDomainError(w http.ResponseWriter, err error) {
	if verr, ok := domain.IsValidation(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  verr.Message,
			"reason": string(verr.Reason),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrFlowNotFound):
		sendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInsufficientFunds):
		sendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}
