package services

import (
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"

	"matchday/internal/status"
)

func TestConflictOrStorage(t *testing.T) {
	uniqueHit := validation.Errors{
		"email": validation.NewError("validation_not_unique", "Value must be unique"),
	}
	assert.ErrorIs(t, conflictOrStorage(uniqueHit, status.ErrEmailTaken), status.ErrEmailTaken)
	assert.ErrorIs(t, conflictOrStorage(uniqueHit, status.ErrTeamExists), status.ErrTeamExists)

	wrapped := fmt.Errorf("save record: %w", uniqueHit)
	assert.ErrorIs(t, conflictOrStorage(wrapped, status.ErrEmailTaken), status.ErrEmailTaken)

	outage := errors.New("database is locked")
	err := conflictOrStorage(outage, status.ErrEmailTaken)
	assert.ErrorIs(t, err, status.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, status.ErrEmailTaken)
}
