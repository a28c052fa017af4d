package run

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/agentchat"
)

func writeSSE(t *testing.T, w http.ResponseWriter, ev events.Event) {
	t.Helper()
	data, err := ev.ToJSON()
	require.NoError(t, err)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func collectEvents(t *testing.T, ch <-chan events.Event) []events.Event {
	t.Helper()
	var got []events.Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func TestSSETransport(t *testing.T) {
	t.Run("decodes a full run stream", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "t1", payload["thread_id"])
			assert.NotEmpty(t, payload["run_id"])

			w.Header().Set("Content-Type", "text/event-stream")
			writeSSE(t, w, events.NewRunStartedEvent("t1", "r1"))
			writeSSE(t, w, events.NewTextMessageStartEvent("m1", events.WithRole("assistant")))
			writeSSE(t, w, events.NewTextMessageContentEvent("m1", "Hello"))
			writeSSE(t, w, events.NewTextMessageEndEvent("m1"))
			writeSSE(t, w, events.NewRunFinishedEvent("t1", "r1"))
		}))
		defer srv.Close()

		transport := NewSSETransport(srv.URL)
		ch, err := transport.OpenRun(context.Background(), Input{ThreadID: "t1", RunID: "r1"})
		require.NoError(t, err)

		got := collectEvents(t, ch)
		require.Len(t, got, 5)
		assert.Equal(t, events.EventTypeRunStarted, got[0].Type())
		assert.Equal(t, events.EventTypeTextMessageStart, got[1].Type())
		content, ok := got[2].(*events.TextMessageContentEvent)
		require.True(t, ok)
		assert.Equal(t, "m1", content.MessageID)
		assert.Equal(t, "Hello", content.Delta)
		assert.Equal(t, events.EventTypeTextMessageEnd, got[3].Type())
		assert.Equal(t, events.EventTypeRunFinished, got[4].Type())
	})

	t.Run("decodes streamed tool calls", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			writeSSE(t, w, events.NewRunStartedEvent("t1", "r1"))
			writeSSE(t, w, events.NewToolCallStartEvent("call-1", "get_weather"))
			writeSSE(t, w, events.NewToolCallArgsEvent("call-1", `{"city":`))
			writeSSE(t, w, events.NewToolCallArgsEvent("call-1", `"Austin"}`))
			writeSSE(t, w, events.NewToolCallEndEvent("call-1"))
			writeSSE(t, w, events.NewRunFinishedEvent("t1", "r1"))
		}))
		defer srv.Close()

		transport := NewSSETransport(srv.URL)
		ch, err := transport.OpenRun(context.Background(), Input{ThreadID: "t1"})
		require.NoError(t, err)

		got := collectEvents(t, ch)
		require.Len(t, got, 6)
		start, ok := got[1].(*events.ToolCallStartEvent)
		require.True(t, ok)
		assert.Equal(t, "call-1", start.ToolCallID)
		assert.Equal(t, "get_weather", start.ToolCallName)
		args, ok := got[2].(*events.ToolCallArgsEvent)
		require.True(t, ok)
		assert.Equal(t, `{"city":`, args.Delta)
	})

	t.Run("non-200 response is a TransportError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		transport := NewSSETransport(srv.URL)
		_, err := transport.OpenRun(context.Background(), Input{ThreadID: "t1"})
		require.Error(t, err)
		var te *ai.TransportError
		assert.ErrorAs(t, err, &te)
	})

	t.Run("synthesizes RUN_ERROR when the stream breaks early", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			writeSSE(t, w, events.NewRunStartedEvent("t1", "r1"))
			writeSSE(t, w, events.NewTextMessageStartEvent("m1"))
			// Connection drops without RUN_FINISHED.
		}))
		defer srv.Close()

		transport := NewSSETransport(srv.URL)
		ch, err := transport.OpenRun(context.Background(), Input{ThreadID: "t1"})
		require.NoError(t, err)

		got := collectEvents(t, ch)
		require.NotEmpty(t, got)
		last, ok := got[len(got)-1].(*events.RunErrorEvent)
		require.True(t, ok)
		assert.Contains(t, last.Message, "stream closed")
	})

	t.Run("stays quiet when the caller cancels", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			writeSSE(t, w, events.NewRunStartedEvent("t1", "r1"))
			<-release
		}))
		defer srv.Close()
		defer close(release)

		ctx, cancel := context.WithCancel(context.Background())
		transport := NewSSETransport(srv.URL)
		ch, err := transport.OpenRun(ctx, Input{ThreadID: "t1"})
		require.NoError(t, err)

		// Consume the opening event, then cancel the run locally.
		<-ch
		cancel()

		got := collectEvents(t, ch)
		for _, ev := range got {
			assert.NotEqual(t, events.EventTypeRunError, ev.Type(),
				"local cancellation must not synthesize a run error")
		}
	})

	t.Run("skips unknown event types", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			writeSSE(t, w, events.NewRunStartedEvent("t1", "r1"))
			fmt.Fprint(w, "event: SOMETHING_NEW\ndata: {\"type\":\"SOMETHING_NEW\"}\n\n")
			writeSSE(t, w, events.NewRunFinishedEvent("t1", "r1"))
		}))
		defer srv.Close()

		transport := NewSSETransport(srv.URL)
		ch, err := transport.OpenRun(context.Background(), Input{ThreadID: "t1"})
		require.NoError(t, err)

		got := collectEvents(t, ch)
		require.Len(t, got, 2)
		assert.Equal(t, events.EventTypeRunFinished, got[1].Type())
	})
}
