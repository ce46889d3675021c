package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spoor-app/spoor/internal/db"
	"github.com/spoor-app/spoor/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondRepoError maps repository errors to HTTP status codes:
// not-found sentinels become 404, validation failures 400, and anything
// else a 500.
func respondRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrHuntNotFound),
		errors.Is(err, db.ErrNodeNotFound),
		errors.Is(err, db.ErrLogNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case isValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func isValidationError(err error) bool {
	var verrs *models.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	return errors.Is(err, models.ErrInvalidHuntName) ||
		errors.Is(err, models.ErrInvalidHuntStatus) ||
		errors.Is(err, models.ErrInvalidHuntID) ||
		errors.Is(err, models.ErrEmptyNodeText) ||
		errors.Is(err, models.ErrInvalidNodeType)
}
