package run

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/agentchat"
)

// chanTransport feeds a pre-built channel to the session under test.
type chanTransport struct {
	ch  chan events.Event
	err error
}

func (t *chanTransport) OpenRun(ctx context.Context, input Input) (<-chan events.Event, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.ch, nil
}

// collector records delivered events thread-safely.
type collector struct {
	mu   sync.Mutex
	seen []events.Event
}

func (c *collector) onEvent(h *Handle, e events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, e)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func TestStart(t *testing.T) {
	t.Run("delivers events in receipt order", func(t *testing.T) {
		transport := &chanTransport{ch: make(chan events.Event, 8)}
		var col collector

		h, err := Start(context.Background(), transport, Input{ThreadID: "t1"}, col.onEvent)
		require.NoError(t, err)
		assert.Equal(t, "t1", h.ThreadID())
		assert.NotEmpty(t, h.RunID())

		transport.ch <- events.NewTextMessageStartEvent("m1")
		transport.ch <- events.NewTextMessageContentEvent("m1", "Hel")
		transport.ch <- events.NewTextMessageContentEvent("m1", "lo")
		transport.ch <- events.NewTextMessageEndEvent("m1")
		close(transport.ch)

		assert.Eventually(t, func() bool { return col.count() == 4 }, time.Second, time.Millisecond)

		col.mu.Lock()
		defer col.mu.Unlock()
		assert.Equal(t, events.EventTypeTextMessageStart, col.seen[0].Type())
		assert.Equal(t, events.EventTypeTextMessageContent, col.seen[1].Type())
		assert.Equal(t, events.EventTypeTextMessageContent, col.seen[2].Type())
		assert.Equal(t, events.EventTypeTextMessageEnd, col.seen[3].Type())
	})

	t.Run("surfaces connection failure as TransportError", func(t *testing.T) {
		transport := &chanTransport{err: errors.New("connection refused")}

		_, err := Start(context.Background(), transport, Input{ThreadID: "t1"}, func(h *Handle, e events.Event) {})
		require.Error(t, err)

		var te *ai.TransportError
		assert.ErrorAs(t, err, &te)
	})

	t.Run("generates a run ID when none is given", func(t *testing.T) {
		transport := &chanTransport{ch: make(chan events.Event)}
		h, err := Start(context.Background(), transport, Input{ThreadID: "t1"}, func(h *Handle, e events.Event) {})
		require.NoError(t, err)
		assert.NotEmpty(t, h.RunID())
		close(transport.ch)
	})
}

func TestHandleCancel(t *testing.T) {
	t.Run("no delivery after Cancel returns", func(t *testing.T) {
		transport := &chanTransport{ch: make(chan events.Event, 8)}
		var col collector

		h, err := Start(context.Background(), transport, Input{ThreadID: "t1"}, col.onEvent)
		require.NoError(t, err)

		h.Cancel()

		// Events pushed after cancellation must never reach the callback,
		// even though the delivery goroutine still drains them.
		for range 5 {
			transport.ch <- events.NewTextMessageContentEvent("m1", "stale")
		}
		close(transport.ch)

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 0, col.count())
	})

	t.Run("Cancel waits for an in-flight delivery", func(t *testing.T) {
		transport := &chanTransport{ch: make(chan events.Event, 8)}

		started := make(chan struct{})
		gate := make(chan struct{})
		var col collector
		onEvent := func(h *Handle, e events.Event) {
			col.onEvent(h, e)
			if col.count() == 1 {
				close(started)
				<-gate
			}
		}

		h, err := Start(context.Background(), transport, Input{ThreadID: "t1"}, onEvent)
		require.NoError(t, err)

		for range 5 {
			transport.ch <- events.NewTextMessageContentEvent("m1", "x")
		}
		close(transport.ch)

		<-started
		go func() {
			time.Sleep(20 * time.Millisecond)
			close(gate)
		}()
		h.Cancel()

		// The first delivery was in flight when Cancel was called; the
		// four buffered events behind it must be discarded.
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 1, col.count())
	})

	t.Run("Cancel is idempotent", func(t *testing.T) {
		transport := &chanTransport{ch: make(chan events.Event)}
		h, err := Start(context.Background(), transport, Input{ThreadID: "t1"}, func(h *Handle, e events.Event) {})
		require.NoError(t, err)

		assert.NotPanics(t, func() {
			h.Cancel()
			h.Cancel()
		})
		close(transport.ch)
	})
}

func TestToWireMessages(t *testing.T) {
	t.Run("converts roles and text", func(t *testing.T) {
		msgs := []ai.Message{
			ai.NewUserMessage("t1", "hi"),
			{ID: "m2", Role: ai.RoleAssistant, Parts: []ai.ContentPart{ai.NewTextPart("Hello")}},
		}

		wire := ToWireMessages(msgs)
		require.Len(t, wire, 2)
		assert.Equal(t, "user", wire[0].Role)
		require.NotNil(t, wire[0].Content)
		assert.Equal(t, "hi", *wire[0].Content)
		assert.Equal(t, "assistant", wire[1].Role)
	})

	t.Run("drops local error messages", func(t *testing.T) {
		msgs := []ai.Message{
			ai.NewUserMessage("t1", "hi"),
			ai.NewErrorMessage("t1", "boom"),
		}
		assert.Len(t, ToWireMessages(msgs), 1)
	})
}
