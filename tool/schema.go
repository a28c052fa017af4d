package tool

import (
	"encoding/json"

	ai "github.com/spetersoncode/agentchat"
)

// SchemaFor generates a JSON schema from a struct type T.
// This is a convenience re-export of agentchat.SchemaFor.
// See agentchat.SchemaFor for tag documentation.
func SchemaFor[T any]() (json.RawMessage, error) {
	return ai.SchemaFor[T]()
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	return ai.MustSchemaFor[T]()
}
