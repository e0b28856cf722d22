package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: ErrNotFound, want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("user: %w", ErrNotFound), want: http.StatusNotFound},
		{name: "invalid input", err: ErrInvalidInput, want: http.StatusBadRequest},
		{name: "conflict", err: Conflict("email already registered"), want: http.StatusConflict},
		{name: "recompute running", err: fmt.Errorf("recompute: %w", ErrRecomputeInProgress), want: http.StatusConflict},
		{name: "explicit code", err: New(http.StatusTeapot, "teapot", nil), want: http.StatusTeapot},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatus(tt.err))
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := NotFound("team not found")
	assert.Equal(t, "team not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))

	bare := New(http.StatusBadRequest, "", ErrInvalidInput)
	assert.Equal(t, ErrInvalidInput.Error(), bare.Error())
}
