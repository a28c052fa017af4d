package run

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spetersoncode/agentchat"
)

// EventFunc receives the events of one session in strict receipt order.
// The handle is passed back so the consumer can verify it still belongs to
// the active session before applying the event.
type EventFunc func(h *Handle, e events.Event)

// Handle identifies one in-flight run and is its single cancellation point.
// Exactly one handle may be active per chat at a time; a new run may only be
// started after the prior handle was cancelled or reached a terminal event.
type Handle struct {
	threadID string
	runID    string
	cancel   context.CancelFunc

	// done forecloses deliveries the moment Cancel begins. It is a flag
	// rather than mutex-guarded state because a mutex alone does not give
	// the barrier: the delivery loop re-acquiring a contended mutex can
	// beat a blocked Cancel indefinitely, draining every buffered event
	// first. done stops new deliveries; mu only waits out the one callback
	// that may already be in flight.
	done atomic.Bool
	mu   sync.Mutex
}

// Start opens one streaming run and begins delivering its events to onEvent
// from a dedicated goroutine. The caller returns immediately after
// subscribing; completion is observed only through events.
//
// A connection failure is returned as *agentchat.TransportError and is not
// retried here; retrying is a UI-level decision.
func Start(ctx context.Context, t Transport, input Input, onEvent EventFunc) (*Handle, error) {
	if input.RunID == "" {
		input.RunID = events.GenerateRunID()
	}

	runCtx, cancel := context.WithCancel(ctx)

	ch, err := t.OpenRun(runCtx, input)
	if err != nil {
		cancel()
		if _, ok := err.(*ai.TransportError); ok {
			return nil, err
		}
		return nil, &ai.TransportError{Op: "open", Cause: err}
	}

	h := &Handle{
		threadID: input.ThreadID,
		runID:    input.RunID,
		cancel:   cancel,
	}
	go h.deliver(ch, onEvent)
	return h, nil
}

// ThreadID returns the thread this session runs for.
func (h *Handle) ThreadID() string {
	return h.threadID
}

// RunID returns the run identifier.
func (h *Handle) RunID() string {
	return h.runID
}

// Cancel aborts the session. It is idempotent and guarantees that no further
// onEvent calls are delivered for this handle after it returns, including
// events the transport had already buffered.
func (h *Handle) Cancel() {
	h.done.Store(true)
	// Wait for any in-flight callback to return before reporting the
	// barrier as established.
	h.mu.Lock()
	h.mu.Unlock()
	h.cancel()
}

// deliver pumps transport events into onEvent until the channel closes.
// The channel is always drained so the transport goroutine can exit even
// after cancellation.
func (h *Handle) deliver(ch <-chan events.Event, onEvent EventFunc) {
	defer h.cancel()
	for e := range ch {
		if h.done.Load() {
			continue
		}
		h.mu.Lock()
		// Re-check under the lock: Cancel may have set done between the
		// fast check and the acquisition.
		if h.done.Load() {
			h.mu.Unlock()
			continue
		}
		onEvent(h, e)
		h.mu.Unlock()
	}
}
