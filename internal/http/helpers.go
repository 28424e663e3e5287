package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"librospese/internal/backup"
	"librospese/internal/core"
	"librospese/internal/ics"
	"librospese/internal/services"
)

// parseFilter builds the record filter from query parameters. Unknown
// parameters are ignored; flag parameters accept "1" and "true".
func parseFilter(r *http.Request) core.Filter {
	q := r.URL.Query()
	return core.Filter{
		Month:          strings.TrimSpace(q.Get("month")),
		Category:       core.Category(strings.TrimSpace(q.Get("category"))),
		PaidOnly:       isFlagSet(q.Get("paid")),
		UnpaidOnly:     isFlagSet(q.Get("unpaid")),
		Search:         strings.TrimSpace(q.Get("q")),
		WithAttachment: isFlagSet(q.Get("withAttachment")),
	}
}

func isFlagSet(v string) bool {
	return v == "1" || v == "true"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service errors to HTTP statuses: validation
// failures are 400, missing records 404, export problems 422, anything
// else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, backup.ErrMalformedDocument):
		writeError(w, http.StatusBadRequest, "malformed backup document")
	case errors.Is(err, ics.ErrNoDueDate):
		writeError(w, http.StatusUnprocessableEntity, "record has no due date")
	case errors.Is(err, ics.ErrNothingToExport):
		writeError(w, http.StatusNotFound, "no due dates in selection")
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyID) ||
		errors.Is(err, core.ErrUnknownCategory) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrNegativeAmount) ||
		errors.Is(err, core.ErrNegativeRemindDays) ||
		errors.Is(err, core.ErrMissingPaidDate)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
