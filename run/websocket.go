package run

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"nhooyr.io/websocket"

	ai "github.com/spetersoncode/agentchat"
)

// WebSocketTransport opens runs over a WebSocket connection. The run
// envelope is written as the first text frame; every following frame from
// the server is one JSON-encoded AG-UI event.
type WebSocketTransport struct {
	endpoint string
	log      *slog.Logger
}

// WebSocketOption configures a WebSocketTransport.
type WebSocketOption func(*WebSocketTransport)

// WithWebSocketLogger sets the logger used for skipped frames and teardown.
func WithWebSocketLogger(log *slog.Logger) WebSocketOption {
	return func(t *WebSocketTransport) {
		t.log = log
	}
}

// NewWebSocketTransport creates a transport for the given ws:// or wss://
// agent endpoint URL.
func NewWebSocketTransport(endpoint string, opts ...WebSocketOption) *WebSocketTransport {
	t := &WebSocketTransport{
		endpoint: endpoint,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OpenRun starts a run and returns the event stream.
func (t *WebSocketTransport) OpenRun(ctx context.Context, input Input) (<-chan events.Event, error) {
	conn, _, err := websocket.Dial(ctx, t.endpoint, nil)
	if err != nil {
		return nil, &ai.TransportError{Op: "open", Cause: err}
	}

	body, err := json.Marshal(input.envelope())
	if err != nil {
		conn.Close(websocket.StatusInternalError, "bad envelope")
		return nil, &ai.TransportError{Op: "open", Cause: err}
	}
	if err := conn.Write(ctx, websocket.MessageText, body); err != nil {
		conn.Close(websocket.StatusAbnormalClosure, "write failed")
		return nil, &ai.TransportError{Op: "open", Cause: err}
	}

	ch := make(chan events.Event, 16)
	go t.pump(ctx, conn, ch, input.RunID)
	return ch, nil
}

// pump reads event frames from the connection until it closes.
func (t *WebSocketTransport) pump(ctx context.Context, conn *websocket.Conn, ch chan<- events.Event, runID string) {
	defer close(ch)
	defer conn.Close(websocket.StatusNormalClosure, "")

	log := t.log.With("run_id", runID)

	var sawTerminal bool
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure && sawTerminal {
				return
			}
			log.Warn("event stream broke", "error", err)
			ch <- events.NewRunErrorEvent((&ai.TransportError{Op: "read", Cause: err}).Error())
			return
		}

		ev, err := decodeEvent(data)
		if err != nil {
			var unknown *errUnknownEventType
			if errors.As(err, &unknown) {
				log.Debug("skipping unknown event type", "event_type", unknown.Type)
			} else {
				log.Warn("skipping undecodable frame", "error", err)
			}
			continue
		}

		if ev.Type() == events.EventTypeRunFinished || ev.Type() == events.EventTypeRunError {
			sawTerminal = true
		}
		ch <- ev
	}
}
