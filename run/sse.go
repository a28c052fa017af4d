package run

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spetersoncode/agentchat"
)

// SSETransport opens runs by POSTing the AG-UI envelope to an HTTP endpoint
// and reading the response as a server-sent event stream.
type SSETransport struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// SSEOption configures an SSETransport.
type SSEOption func(*SSETransport)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) SSEOption {
	return func(t *SSETransport) {
		t.httpClient = c
	}
}

// WithLogger sets the logger used for skipped frames and stream teardown.
func WithLogger(log *slog.Logger) SSEOption {
	return func(t *SSETransport) {
		t.log = log
	}
}

// NewSSETransport creates a transport for the given agent endpoint URL.
func NewSSETransport(endpoint string, opts ...SSEOption) *SSETransport {
	t := &SSETransport{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OpenRun starts a run and returns the event stream.
func (t *SSETransport) OpenRun(ctx context.Context, input Input) (<-chan events.Event, error) {
	body, err := json.Marshal(input.envelope())
	if err != nil {
		return nil, &ai.TransportError{Op: "open", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ai.TransportError{Op: "open", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &ai.TransportError{Op: "open", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &ai.TransportError{
			Op:    "open",
			Cause: fmt.Errorf("agent returned %s", resp.Status),
		}
	}

	ch := make(chan events.Event, 16)
	go t.pump(ctx, resp.Body, ch, input.RunID)
	return ch, nil
}

// pump reads SSE frames from the response body until the stream ends.
func (t *SSETransport) pump(ctx context.Context, body io.ReadCloser, ch chan<- events.Event, runID string) {
	defer close(ch)
	defer body.Close()

	log := t.log.With("run_id", runID)

	var sawTerminal bool
	var data strings.Builder

	dispatch := func() {
		if data.Len() == 0 {
			return
		}
		frame := data.String()
		data.Reset()

		ev, err := decodeEvent([]byte(frame))
		if err != nil {
			var unknown *errUnknownEventType
			if errors.As(err, &unknown) {
				log.Debug("skipping unknown event type", "event_type", unknown.Type)
			} else {
				log.Warn("skipping undecodable frame", "error", err)
			}
			return
		}

		if ev.Type() == events.EventTypeRunFinished || ev.Type() == events.EventTypeRunError {
			sawTerminal = true
		}
		ch <- ev
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			dispatch()
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// "event:" and comment lines carry no payload we need; the
			// event type is repeated inside the data JSON.
		}
	}
	dispatch()

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		log.Warn("event stream broke", "error", err)
		ch <- events.NewRunErrorEvent((&ai.TransportError{Op: "read", Cause: err}).Error())
		return
	}

	if !sawTerminal && ctx.Err() == nil {
		log.Warn("event stream ended before run finished")
		ch <- events.NewRunErrorEvent("transport: stream closed before run finished")
	}
}
