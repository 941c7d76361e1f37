package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/carmap/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "make", ID: "mazda"}
		assert.Equal(t, `make "mazda" not found`, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("listing styles: %w", pkgerrors.NewNotFoundError("model", "Protege"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("vehicle_type", "", "is required")
		assert.Equal(t, "validation failed for field vehicle_type: is required", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad record"}
		assert.Equal(t, "validation failed: bad record", err.Error())
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapValidation("field", nil))
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
		unavailable bool
		retryable   bool
	}{
		{name: "not found", status: 404},
		{name: "too many requests", status: 429, rateLimited: true, retryable: true},
		{name: "server error", status: 503, unavailable: true, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("vpic", tt.status, "boom")
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsSourceUnavailable(err))
			assert.Equal(t, tt.retryable, err.Retryable())
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.status))
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &pkgerrors.APIError{Source: "vpic", Message: "request failed", Err: cause}
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
		assert.True(t, err.Retryable())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "API error from vpic: request failed", err.Error())
	})
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("disk full")

	ioErr := pkgerrors.WrapIO("write", "data/makes_and_models.json", base)
	require.Error(t, ioErr)
	assert.ErrorIs(t, ioErr, base)
	var typed *pkgerrors.IOError
	require.ErrorAs(t, ioErr, &typed)
	assert.Equal(t, "write", typed.Operation)

	resErr := pkgerrors.WrapResource("list", "models", "mazda", base)
	assert.Equal(t, "failed to list models mazda: disk full", resErr.Error())

	parseErr := pkgerrors.WrapParse("json", "styles/mazda.json", base)
	assert.ErrorIs(t, parseErr, base)

	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("read", "x", "", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
}

func TestConfigError(t *testing.T) {
	base := errors.New("missing key")
	err := pkgerrors.NewConfigError("classification", "lists overlap", base)
	assert.Equal(t, "configuration error in classification: lists overlap", err.Error())
	assert.ErrorIs(t, err, base)
}
