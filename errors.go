package agentchat

import (
	"context"
	"errors"
	"fmt"
)

// TransportError indicates a run could not be started or was disconnected
// abnormally. Unless caused by local cancellation, it is surfaced to the user
// as an error message in the conversation.
type TransportError struct {
	// Op identifies the failed operation ("open", "read", "decode").
	Op string
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message including the failed operation.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ToolHandlerError wraps a failure raised by a bound tool handler.
// Handler failures are logged and never abort the run; the corresponding
// tool-invocation part is still marked complete.
type ToolHandlerError struct {
	Name  string
	Cause error
}

// Error returns a formatted message including the tool name and cause.
func (e *ToolHandlerError) Error() string {
	return fmt.Sprintf("tool handler %s failed: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ToolHandlerError) Unwrap() error {
	return e.Cause
}

// HistoryError indicates a request to the external history store failed.
// It is surfaced by the presentation layer as a loading-failed state and is
// never mixed into the message sequence.
type HistoryError struct {
	// Op identifies the failed operation ("list", "get", "delete").
	Op string
	// ThreadID is the thread involved, if any.
	ThreadID string
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message including the operation and thread.
func (e *HistoryError) Error() string {
	if e.ThreadID != "" {
		return fmt.Sprintf("history: %s %s failed: %v", e.Op, e.ThreadID, e.Cause)
	}
	return fmt.Sprintf("history: %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *HistoryError) Unwrap() error {
	return e.Cause
}

// IsCancellation reports whether err was caused by local cancellation of the
// surrounding context. Cancellation is an expected consequence of navigation
// (switching chats, unmounting), not a failure, and is never surfaced as a
// user-visible error.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
