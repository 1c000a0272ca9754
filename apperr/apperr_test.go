package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindForbidden, KindOf(Forbidden("not your track")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("track not found")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("token expired")))
	assert.Equal(t, KindValidation, KindOf(Validation("title is required")))
	assert.Equal(t, KindConflict, KindOf(Conflict("email already in use")))
	assert.Equal(t, KindInternal, KindOf(errors.New("broken pipe")))
}

func TestKindOfWrapped(t *testing.T) {
	inner := Forbidden("not your playlist")
	outer := fmt.Errorf("removing track: %w", inner)
	assert.Equal(t, KindForbidden, KindOf(outer))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "not your album", MessageOf(Forbidden("not your album")))
	// Untagged errors must not leak their text to clients.
	assert.Equal(t, "internal server error", MessageOf(errors.New("dial tcp: connection refused")))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("deadlock found")
	err := Internal(cause)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", err.Message)
	assert.Contains(t, err.Error(), "deadlock found")
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("record not found")
	err := Wrap(KindNotFound, "artist not found", cause)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, KindNotFound, KindOf(err))
}
