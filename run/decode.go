package run

import (
	"encoding/json"
	"fmt"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

// errUnknownEventType marks event types this client does not understand.
// Unknown types are skipped by the transports rather than failing the run,
// to tolerate protocol version skew.
type errUnknownEventType struct {
	Type events.EventType
}

func (e *errUnknownEventType) Error() string {
	return fmt.Sprintf("unknown event type %q", e.Type)
}

// decodeEvent turns one wire frame into a typed AG-UI event.
func decodeEvent(data []byte) (events.Event, error) {
	var probe struct {
		Type events.EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	var ev events.Event
	switch probe.Type {
	case events.EventTypeRunStarted:
		ev = &events.RunStartedEvent{}
	case events.EventTypeRunFinished:
		ev = &events.RunFinishedEvent{}
	case events.EventTypeRunError:
		ev = &events.RunErrorEvent{}
	case events.EventTypeStepStarted:
		ev = &events.StepStartedEvent{}
	case events.EventTypeStepFinished:
		ev = &events.StepFinishedEvent{}
	case events.EventTypeTextMessageStart:
		ev = &events.TextMessageStartEvent{}
	case events.EventTypeTextMessageContent:
		ev = &events.TextMessageContentEvent{}
	case events.EventTypeTextMessageEnd:
		ev = &events.TextMessageEndEvent{}
	case events.EventTypeToolCallStart:
		ev = &events.ToolCallStartEvent{}
	case events.EventTypeToolCallArgs:
		ev = &events.ToolCallArgsEvent{}
	case events.EventTypeToolCallEnd:
		ev = &events.ToolCallEndEvent{}
	case events.EventTypeToolCallResult:
		ev = &events.ToolCallResultEvent{}
	case events.EventTypeStateSnapshot:
		ev = &events.StateSnapshotEvent{}
	case events.EventTypeCustom:
		ev = &events.CustomEvent{}
	default:
		return nil, &errUnknownEventType{Type: probe.Type}
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", probe.Type, err)
	}
	return ev, nil
}
