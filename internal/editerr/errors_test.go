package editerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := New(StaleReference, "drag.update", "feature deleted").WithFeature("f1")
	wrapped := fmt.Errorf("on move: %w", err)

	assert.ErrorIs(t, wrapped, ErrStaleReference)
	assert.NotErrorIs(t, wrapped, ErrWrite)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, StaleReference, kind)
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := New(WriteError, "layer.write", "write rejected").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "WRITE_ERROR")
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusCode(New(InvalidLayer, "op", "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(New(InvalidGeometry, "op", "x")))
	assert.Equal(t, http.StatusBadGateway, StatusCode(New(WriteError, "op", "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}
