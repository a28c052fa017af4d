// Package schema provides a fluent builder for the JSON Schema documents
// that describe a tool's parameters to the agent.
//
// It complements the struct-tag reflection in [tool.SchemaFor]: use SchemaFor
// when the parameters already exist as a Go struct, and this package when a
// schema is declared ad hoc, for example for a tool whose handler works on
// raw JSON.
//
//	params := schema.Object().
//		Desc("Alert to show the user").
//		Field("message", schema.String().Desc("Alert text").Required()).
//		Field("level", schema.String().Enum("info", "warning", "error")).
//		MustBuild()
//
//	c.RegisterTool(agentchat.Tool{
//		Name:        "alert",
//		Description: "Show an alert dialog",
//		Parameters:  params,
//	})
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Builder is implemented by all schema builders.
type Builder interface {
	// Build serializes the schema, validating it first.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error.
	MustBuild() json.RawMessage

	node() *schemaNode
}

// schemaNode is the internal JSON Schema representation.
type schemaNode struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`

	Pattern string   `json:"pattern,omitempty"`
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	Items *schemaNode `json:"items,omitempty"`

	Properties           map[string]*schemaNode `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// Validation failures.
var (
	ErrInvalidRange   = errors.New("schema: minimum exceeds maximum")
	ErrInvalidPattern = errors.New("schema: invalid regex pattern")
	ErrNilItems       = errors.New("schema: array requires items schema")
)

func (s *schemaNode) validate() error {
	switch s.Type {
	case "string":
		if s.Pattern != "" {
			if _, err := regexp.Compile(s.Pattern); err != nil {
				return fmt.Errorf("%w: %q: %v", ErrInvalidPattern, s.Pattern, err)
			}
		}
	case "integer", "number":
		if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
			return ErrInvalidRange
		}
	case "array":
		if s.Items == nil {
			return ErrNilItems
		}
		if err := s.Items.validate(); err != nil {
			return err
		}
	case "object":
		for name, prop := range s.Properties {
			if err := prop.validate(); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
	}
	return nil
}

func build(n *schemaNode) (json.RawMessage, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

func mustBuild(n *schemaNode) json.RawMessage {
	data, err := build(n)
	if err != nil {
		panic(err)
	}
	return data
}

// RequiredField wraps a builder to mark the field as required in the
// enclosing object.
type RequiredField struct {
	builder Builder
}

func ptr[T any](v T) *T {
	return &v
}
