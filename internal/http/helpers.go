package http

import (
	"errors"
	"net/http"
	"strings"

	"timesheet/internal/core"
	"timesheet/internal/log"
)

var (
	validationErrors = []error{
		errBadBody, errBadPath,
		core.ErrInvalidWeek, core.ErrInvalidSlot, core.ErrSlotOutsideWeek,
		core.ErrEmptyAccountID, core.ErrEmptyAccountName, core.ErrAccountNameTooLong, core.ErrInvalidColor,
		core.ErrInvalidGroup, core.ErrInvalidBudget, core.ErrInvalidStatus,
		core.ErrInvalidHours, core.ErrEmptyName, core.ErrEmptyTitle, core.ErrEmptyText,
		core.ErrInvalidDate, core.ErrInvalidType, core.ErrInvalidRating,
		core.ErrEmptyCategory, core.ErrMissingURL, core.ErrMissingData,
	}
	notFoundErrors = []error{core.ErrAccountNotFound, core.ErrNotFound}
	conflictErrors = []error{core.ErrEmptyWeek, core.ErrProtected, core.ErrAccountExists, core.ErrInvalidTransition}
)

// errorStatus maps a service error to its HTTP status.
func errorStatus(err error) int {
	switch {
	case isAny(err, validationErrors):
		return http.StatusUnprocessableEntity
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError answers with the mapped status. Internal errors are logged and
// their text is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err)
		InternalServerError("internal error").Write(w)
		return
	}
	ErrorResponse(status, err.Error()).Write(w)
}

// writeJSON answers 200 with v.
func writeJSON(w http.ResponseWriter, v any) {
	NewResponse().JSON(v).Write(w)
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
