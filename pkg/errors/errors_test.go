package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryValidation, CategoryOf(Validation("amount", "must be positive")))
	assert.Equal(t, CategoryNotFound, CategoryOf(NotFound("settlement", "st-1")))
	assert.Equal(t, CategoryAlreadySettled, CategoryOf(AlreadySettled()))
	assert.Equal(t, CategoryConflict, CategoryOf(Conflict("period already settled")))
	assert.Equal(t, CategoryPersistence, CategoryOf(Persistence(errors.New("boom"), "create settlement")))

	// Unclassified errors default to persistence
	assert.Equal(t, CategoryPersistence, CategoryOf(errors.New("raw")))
}

func TestCategoryOf_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("generate settlement: %w", NotFound("brand", "b-1"))

	assert.Equal(t, CategoryNotFound, CategoryOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestPersistence_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence(cause, "apply payment")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "apply payment failed")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestValidation_MessageNamesField(t *testing.T) {
	err := Validation("commission_value", "must not be negative")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, "commission_value: must not be negative", err.Message)
}
