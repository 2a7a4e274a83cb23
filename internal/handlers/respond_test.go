package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"matchday/internal/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err      error
		expected int
		expose   bool
	}{
		{status.ErrEmailTaken, http.StatusBadRequest, true},
		{status.ErrTeamExists, http.StatusBadRequest, true},
		{status.ErrMatchExists, http.StatusBadRequest, true},
		{status.ErrAlreadyOwned, http.StatusBadRequest, true},
		{status.ErrNotOwned, http.StatusBadRequest, true},
		{status.ErrInsufficientBudget, http.StatusBadRequest, true},
		{status.ErrBudgetConflict, http.StatusBadRequest, true},
		{status.ErrAccountNotFound, http.StatusNotFound, true},
		{status.ErrTeamNotFound, http.StatusNotFound, true},
		{status.ErrMatchNotFound, http.StatusNotFound, true},
		{status.ErrCategoryNotFound, http.StatusNotFound, true},
		{status.ErrTicketNotFound, http.StatusNotFound, true},
		{status.ErrIncorrectPassword, http.StatusForbidden, true},
		{status.ErrOwnerMismatch, http.StatusForbidden, true},
		{status.ErrTokenMismatch, http.StatusForbidden, true},
		{status.ErrPermissionDenied, http.StatusForbidden, true},
		{status.ErrTokenExpired, http.StatusUnauthorized, true},
		{status.ErrTokenInvalid, http.StatusUnauthorized, true},
		{status.ErrStorageUnavailable, http.StatusServiceUnavailable, false},
		{errors.New("something unexpected"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			httpStatus, expose := classify(tt.err)
			assert.Equal(t, tt.expected, httpStatus)
			assert.Equal(t, tt.expose, expose)
		})
	}
}

func TestOwnResource(t *testing.T) {
	tests := []struct {
		name            string
		authenticatedID string
		resourceID      string
		expected        bool
	}{
		{"Matching ids", "user1", "user1", true},
		{"Token subject differs from resource", "user1", "user2", false},
		{"Empty resource id", "user1", "", false},
		{"No authenticated account", "", "user1", false},
		{"Both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ownResource(tt.authenticatedID, tt.resourceID))
		})
	}
}

func TestClassify_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: disk full", status.ErrStorageUnavailable)
	httpStatus, expose := classify(wrapped)
	assert.Equal(t, http.StatusServiceUnavailable, httpStatus)
	assert.False(t, expose)
}
