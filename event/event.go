// Package event defines the compact lifecycle signals the stream reducer
// raises toward the presentation layer. A signal tells the UI that the chat
// state changed and roughly why; the state itself is read back through the
// facade's accessors.
package event

import "time"

// Type identifies the kind of signal.
type Type string

// Run lifecycle signals
const (
	// RunStart fires when a run begins streaming.
	RunStart Type = "run_start"

	// RunEnd fires when a run completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when a run fails with a surfaced error.
	RunError Type = "run_error"
)

// Message lifecycle signals
const (
	// MessageStart fires when an assistant message begins.
	MessageStart Type = "message_start"

	// MessageDelta fires for each streamed content fragment.
	MessageDelta Type = "message_delta"

	// MessageEnd fires when the in-progress message is finalized.
	MessageEnd Type = "message_end"
)

// State signals
const (
	// ToolCall fires when a tool call has been finalized.
	ToolCall Type = "tool_call"

	// StateUpdated fires when the agent replaced the state snapshot.
	StateUpdated Type = "state_updated"

	// ProgressUpdated fires when a progress track changed.
	ProgressUpdated Type = "progress_updated"

	// HistoryLoaded fires when a history fetch for the active chat landed.
	HistoryLoaded Type = "history_loaded"
)

// Event is a single signal raised by the reducer.
type Event struct {
	// Type identifies the kind of signal.
	Type Type

	// ThreadID is the chat the signal belongs to.
	ThreadID string

	// MessageID identifies the message for message lifecycle signals.
	MessageID string

	// Delta contains the streamed fragment for MessageDelta signals.
	Delta string

	// ToolName identifies the tool for ToolCall signals.
	ToolName string

	// ProgressID identifies the track for ProgressUpdated signals.
	ProgressID string

	// Error contains the surfaced error for RunError signals.
	Error error

	// Timestamp is when the signal was raised.
	Timestamp time.Time
}

// Emit sends a signal with timestamp to the channel without blocking.
// A full channel drops the signal; the UI re-reads full state on the next
// signal it does receive, so drops are lossy only in granularity.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered signal channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
