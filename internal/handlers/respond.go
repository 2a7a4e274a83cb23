// Package handlers holds the HTTP controllers. Every endpoint answers
// with the models.Respond envelope; domain sentinels map onto HTTP
// statuses here, everything else is logged and reported as 500.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"matchday/internal/status"
	"matchday/models"
)

func respond(e *core.RequestEvent, httpStatus int, data any, message string) error {
	return e.JSON(httpStatus, models.NewRespond(httpStatus, data, message))
}

func badRequest(e *core.RequestEvent, message string) error {
	return respond(e, http.StatusBadRequest, nil, message)
}

func permissionDenied(e *core.RequestEvent) error {
	return respond(e, http.StatusForbidden, nil, "Permission denied.")
}

// ownResource reports whether the authenticated account may act on an
// account-scoped resource: the ids must be present and identical. A
// valid token never authorizes another account's resources.
func ownResource(authenticatedID, resourceID string) bool {
	return resourceID != "" && authenticatedID == resourceID
}

// fail translates a service error into the envelope. Business errors
// surface their own message; internals are logged and hidden.
func fail(e *core.RequestEvent, err error) error {
	httpStatus, expose := classify(err)

	message := "Internal server error"
	switch {
	case expose:
		message = err.Error()
	case httpStatus == http.StatusServiceUnavailable:
		message = "Service temporarily unavailable"
	}
	if !expose {
		slog.Error("request failed",
			"method", e.Request.Method,
			"path", e.Request.URL.Path,
			"error", err,
		)
	}

	return respond(e, httpStatus, nil, message)
}

func classify(err error) (httpStatus int, expose bool) {
	switch {
	case errors.Is(err, status.ErrEmailTaken),
		errors.Is(err, status.ErrTeamExists),
		errors.Is(err, status.ErrMatchExists),
		errors.Is(err, status.ErrAlreadyOwned),
		errors.Is(err, status.ErrNotOwned),
		errors.Is(err, status.ErrInsufficientBudget),
		errors.Is(err, status.ErrBudgetConflict):
		return http.StatusBadRequest, true
	case errors.Is(err, status.ErrAccountNotFound),
		errors.Is(err, status.ErrTeamNotFound),
		errors.Is(err, status.ErrMatchNotFound),
		errors.Is(err, status.ErrCategoryNotFound),
		errors.Is(err, status.ErrTicketNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, status.ErrIncorrectPassword),
		errors.Is(err, status.ErrOwnerMismatch),
		errors.Is(err, status.ErrTokenMismatch),
		errors.Is(err, status.ErrPermissionDenied):
		return http.StatusForbidden, true
	case errors.Is(err, status.ErrTokenExpired),
		errors.Is(err, status.ErrTokenInvalid):
		return http.StatusUnauthorized, true
	case errors.Is(err, status.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, false
	default:
		return http.StatusInternalServerError, false
	}
}
