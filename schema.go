package agentchat

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SchemaFor generates a JSON Schema for a tool's parameters from a struct
// type T. Field names come from json tags; the struct tags "desc", "required"
// and "enum" supply descriptions, required markers and allowed string values:
//
//	type alertArgs struct {
//	    Message string `json:"message" desc:"Text to display" required:"true"`
//	    Level   string `json:"level" enum:"info,warning,error"`
//	}
//
//	tool := agentchat.Tool{
//	    Name:       "alert",
//	    Parameters: agentchat.MustSchemaFor[alertArgs](),
//	}
func SchemaFor[T any]() (json.RawMessage, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %T is not a struct type", zero)
	}
	node, err := structSchema(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

// schemaNode is the serialized JSON Schema representation.
type schemaNode struct {
	Type        string                `json:"type"`
	Description string                `json:"description,omitempty"`
	Enum        []string              `json:"enum,omitempty"`
	Items       *schemaNode           `json:"items,omitempty"`
	Properties  map[string]schemaNode `json:"properties,omitempty"`
	Required    []string              `json:"required,omitempty"`
}

func structSchema(t reflect.Type) (schemaNode, error) {
	node := schemaNode{
		Type:       "object",
		Properties: make(map[string]schemaNode),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop, err := fieldSchema(field.Type)
		if err != nil {
			return node, fmt.Errorf("schema: field %s: %w", name, err)
		}

		prop.Description = field.Tag.Get("desc")
		if enum := field.Tag.Get("enum"); enum != "" {
			prop.Enum = strings.Split(enum, ",")
		}
		if field.Tag.Get("required") == "true" {
			node.Required = append(node.Required, name)
		}

		node.Properties[name] = prop
	}

	return node, nil
}

func fieldSchema(t reflect.Type) (schemaNode, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return schemaNode{Type: "string"}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return schemaNode{Type: "integer"}, nil

	case reflect.Float32, reflect.Float64:
		return schemaNode{Type: "number"}, nil

	case reflect.Bool:
		return schemaNode{Type: "boolean"}, nil

	case reflect.Slice, reflect.Array:
		items, err := fieldSchema(t.Elem())
		if err != nil {
			return schemaNode{}, err
		}
		return schemaNode{Type: "array", Items: &items}, nil

	case reflect.Struct:
		return structSchema(t)

	case reflect.Map:
		// Maps become objects with no declared properties.
		return schemaNode{Type: "object"}, nil

	case reflect.Interface:
		// Opaque values are passed through untyped.
		return schemaNode{Type: "object"}, nil

	default:
		return schemaNode{}, fmt.Errorf("unsupported kind %s", t.Kind())
	}
}
