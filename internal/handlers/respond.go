package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"earnwallet/internal/models"
	"earnwallet/internal/services"
	"earnwallet/internal/store"

	"github.com/rs/zerolog"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func respondValidationErrors(w http.ResponseWriter, errs models.ValidationErrors) {
	respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "validation_error",
		"message": "Invalid input",
		"errors":  errs,
	})
}

// respondServiceError maps the service error taxonomy onto status codes:
// validation 400, not-found 404, forbidden 403, business-rule violations
// 400 with a reason code, anything else 500.
func respondServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondValidationErrors(w, verrs)
	case errors.Is(err, services.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "forbidden", "Admin access required")
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, services.ErrInsufficientBalance):
		respondWithError(w, http.StatusBadRequest, "insufficient_balance", "Insufficient balance")
	case errors.Is(err, models.ErrInvalidTransition):
		respondWithError(w, http.StatusBadRequest, "invalid_transition", err.Error())
	default:
		logger.Error().Err(err).Msg("Request failed")
		respondWithError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
