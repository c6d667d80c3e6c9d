package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"recordaccess/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// StatusFor maps a service error onto the HTTP status and the public message.
// Anything not recognised is reported as an internal error.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidParams):
		return http.StatusBadRequest, models.ErrInvalidParams.Error()
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, models.ErrForbidden.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrInvalidCredentials.Error()
	case errors.Is(err, models.ErrRecordNotFound):
		return http.StatusNotFound, models.ErrRecordNotFound.Error()
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, models.ErrUserNotFound.Error()
	case errors.Is(err, models.ErrUserExists):
		return http.StatusConflict, models.ErrUserExists.Error()
	default:
		return http.StatusInternalServerError, models.ErrInternal.Error()
	}
}

func WriteStatusError(w http.ResponseWriter, err error) {
	status, message := StatusFor(err)
	WriteJSONError(w, status, message)
}
