package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lkd-web/kurs/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps the service sentinels onto HTTP status codes.
// Anything unrecognized is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidFile),
		errors.Is(err, service.ErrInvalidChoice),
		errors.Is(err, service.ErrDuplicateChoice),
		errors.Is(err, service.ErrTooManyChoices),
		errors.Is(err, service.ErrNoCoursesMatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrCourseClosed),
		errors.Is(err, service.ErrChoiceNotOpen),
		errors.Is(err, service.ErrApplicationApproved):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrNoApplication),
		errors.Is(err, service.ErrPermitNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPageNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateApplication),
		errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrAlreadyApproved),
		errors.Is(err, service.ErrNotApproved):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
