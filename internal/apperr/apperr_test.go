package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("allocating bins: %w", Capacity("There are not enough available bins"))

	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeCapacity, e.Code)
	assert.Equal(t, "There are not enough available bins", e.Message)
}

func TestAsPlainError(t *testing.T) {
	_, ok := As(errors.New("connection refused"))
	assert.False(t, ok)
}

func TestIsCode(t *testing.T) {
	err := NotFound("Account not found")
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeConflict))
	assert.False(t, IsCode(errors.New("boom"), CodeNotFound))
}
