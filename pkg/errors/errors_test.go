package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, CodeOf(NotFound("patient", nil)))
	assert.Equal(t, ErrAuthorization, CodeOf(Authorization("nope")))
	assert.Equal(t, ErrInternal, CodeOf(errors.New("plain")))
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", Validation("bad input", nil))
	assert.Equal(t, ErrValidation, CodeOf(err))
}

func TestAppErrorMessage(t *testing.T) {
	err := NotFound("doctor profile", errors.New("sql: no rows"))
	assert.Equal(t, "doctor profile not found: sql: no rows", err.Error())
	assert.EqualError(t, Authorization("only doctors can prescribe medications"), "only doctors can prescribe medications")
}
