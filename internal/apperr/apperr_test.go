package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("slot %d unavailable", 3)))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", NotFound("appointment %d not found", 1))))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestStoreErrorHidesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store("create appointment", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create appointment: connection reset", err.Error())
	assert.Equal(t, "server error", Message(err))
	assert.Equal(t, "server error", Message(cause))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "slot unavailable", Message(Conflict("slot unavailable")))
	assert.True(t, Is(Validation("missing tutor_id"), KindValidation))
	assert.False(t, Is(nil, KindValidation))
	assert.Equal(t, "conflict", KindConflict.String())
}
