package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "datefinder/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps a domain error to its HTTP shape.
func writeError(w http.ResponseWriter, err error) {
	httpErr := apperrors.FromError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, httpErr.Code, errorResponse{Error: httpErr.Message, Code: httpErr.Code})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message, Code: http.StatusBadRequest})
}
