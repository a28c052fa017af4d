package run

import (
	"context"
	"encoding/json"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spetersoncode/agentchat"
)

// Transport opens one streaming run against a remote agent.
//
// Implementations must deliver events on the returned channel in receipt
// order and close it when the stream ends. When the stream breaks before a
// terminal event and ctx is still alive, the transport synthesizes a
// RUN_ERROR event so the consumer always observes a terminal; a break caused
// by ctx cancellation produces no synthetic event, since local cancellation
// is not an error.
type Transport interface {
	OpenRun(ctx context.Context, input Input) (<-chan events.Event, error)
}

// Input is the snapshot a run is started from. Messages and Tools are taken
// at call time and are not re-read afterwards.
type Input struct {
	// ThreadID identifies the conversation the run belongs to.
	ThreadID string
	// RunID identifies this run. Generated when empty.
	RunID string
	// Messages is the conversation to send, oldest first.
	Messages []ai.Message
	// Tools is the enabled-descriptor snapshot offered as capabilities.
	Tools []ai.Tool
	// State is an opaque value forwarded to the agent, if any.
	State any
}

// runAgentInput is the AG-UI wire envelope for starting a run.
type runAgentInput struct {
	ThreadID       string           `json:"thread_id"`
	RunID          string           `json:"run_id"`
	Messages       []events.Message `json:"messages"`
	Tools          []wireTool       `json:"tools,omitempty"`
	Context        []any            `json:"context,omitempty"`
	State          any              `json:"state,omitempty"`
	ForwardedProps any              `json:"forwarded_props,omitempty"`
}

// wireTool is the capability declaration transmitted to the agent.
type wireTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// envelope builds the wire envelope for the input.
func (in Input) envelope() runAgentInput {
	env := runAgentInput{
		ThreadID: in.ThreadID,
		RunID:    in.RunID,
		Messages: ToWireMessages(in.Messages),
		State:    in.State,
	}
	for _, t := range in.Tools {
		env.Tools = append(env.Tools, wireTool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return env
}

// ToWireMessages converts messages to the AG-UI wire format.
// Error messages are local UI state and are not transmitted.
func ToWireMessages(msgs []ai.Message) []events.Message {
	result := make([]events.Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Role == ai.RoleError {
			continue
		}
		result = append(result, ToWireMessage(msg))
	}
	return result
}

// ToWireMessage converts a single message to the AG-UI wire format.
// Content is the concatenation of the message's text parts; tool-invocation
// and widget parts are render state and are not resent.
func ToWireMessage(msg ai.Message) events.Message {
	m := events.Message{
		ID:   msg.ID,
		Role: string(msg.Role),
	}
	if text := msg.Text(); text != "" {
		m.Content = &text
	}
	return m
}

// FromWireMessage converts an AG-UI wire message to a finalized message,
// used when loading history served in wire format.
func FromWireMessage(threadID string, msg events.Message) ai.Message {
	m := ai.Message{
		ID:       msg.ID,
		Role:     ai.Role(msg.Role),
		ThreadID: threadID,
	}
	if m.ID == "" {
		m.ID = ai.GenerateMessageID()
	}
	if msg.Content != nil && *msg.Content != "" {
		m.Parts = append(m.Parts, ai.NewTextPart(*msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		m.Parts = append(m.Parts, ai.NewToolInvocationPart(
			tc.Function.Name,
			json.RawMessage(tc.Function.Arguments),
			ai.InvocationComplete,
		))
	}
	return m
}
