package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

// maxJSONBody bounds admin JSON payloads.
const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return false
	}
	return true
}

// writeServiceError maps service errors onto the response envelope. tag names
// the call site in logs.
func writeServiceError(w http.ResponseWriter, tag string, err error, notFound string) {
	if ve, ok := services.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(ve.Fields))
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse(notFound))
		return
	}
	log.Printf("[%s] error=%v", tag, err)
	writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Something went wrong, please try again"))
}
