package agentchat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Op: "open", Cause: cause}

	assert.Contains(t, err.Error(), "open")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)

	var te *TransportError
	assert.ErrorAs(t, fmt.Errorf("starting run: %w", err), &te)
}

func TestToolHandlerError(t *testing.T) {
	cause := errors.New("panic: nil map")
	err := &ToolHandlerError{Name: "alert", Cause: cause}

	assert.Contains(t, err.Error(), "alert")
	assert.ErrorIs(t, err, cause)
}

func TestHistoryError(t *testing.T) {
	t.Run("includes thread when present", func(t *testing.T) {
		err := &HistoryError{Op: "get", ThreadID: "t1", Cause: errors.New("404")}
		assert.Contains(t, err.Error(), "t1")
	})

	t.Run("omits thread when absent", func(t *testing.T) {
		err := &HistoryError{Op: "list", Cause: errors.New("500")}
		assert.Contains(t, err.Error(), "list")
	})
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(context.Canceled))
	assert.True(t, IsCancellation(context.DeadlineExceeded))
	assert.True(t, IsCancellation(&TransportError{Op: "read", Cause: context.Canceled}))
	assert.False(t, IsCancellation(errors.New("connection reset")))
	assert.False(t, IsCancellation(nil))
}
