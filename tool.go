package agentchat

import "encoding/json"

// Tool declares a capability the frontend offers to the agent.
// The descriptor is serialized and transmitted at run start; the runtime
// behavior lives in a separate handler binding (see the tool package) so
// that declaration and behavior can change independently.
type Tool struct {
	// Name uniquely identifies the tool.
	Name string `json:"name"`
	// Description tells the agent what the tool does.
	Description string `json:"description,omitempty"`
	// Parameters is a JSON Schema describing the tool's arguments.
	// Use SchemaFrom to generate one from a Go struct.
	Parameters json.RawMessage `json:"parameters,omitempty"`
	// Disabled excludes the tool from the capability snapshot sent to the
	// agent. The zero value keeps the tool enabled.
	Disabled bool `json:"-"`
}

// ToolCall represents a tool invocation received from the agent.
type ToolCall struct {
	// ID correlates the call across start/args/end events.
	ID string `json:"id"`
	// Name is the tool being invoked.
	Name string `json:"name"`
	// Arguments contains the call arguments as a JSON string.
	Arguments string `json:"arguments"`
}

// Args returns the call arguments as raw JSON, or an empty object when the
// agent sent none.
func (c ToolCall) Args() json.RawMessage {
	if c.Arguments == "" {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(c.Arguments)
}
