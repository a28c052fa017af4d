package schema

import (
	"encoding/json"
	"fmt"
)

// Object creates an object schema builder.
func Object() *ObjectBuilder {
	return &ObjectBuilder{n: &schemaNode{
		Type:       "object",
		Properties: make(map[string]*schemaNode),
	}}
}

// ObjectBuilder constructs object schemas.
type ObjectBuilder struct {
	n *schemaNode
}

// Desc sets the object's description.
func (b *ObjectBuilder) Desc(d string) *ObjectBuilder {
	b.n.Description = d
	return b
}

// Field adds a property. Pass a Builder for an optional field or a
// *RequiredField (from a builder's Required method) for a required one.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.n.Properties[name] = f.builder.node()
		b.markRequired(name)
	case Builder:
		b.n.Properties[name] = f.node()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

func (b *ObjectBuilder) markRequired(name string) {
	for _, r := range b.n.Required {
		if r == name {
			return
		}
	}
	b.n.Required = append(b.n.Required, name)
}

// AdditionalProperties controls whether properties outside the declared set
// are allowed.
func (b *ObjectBuilder) AdditionalProperties(allowed bool) *ObjectBuilder {
	b.n.AdditionalProperties = ptr(allowed)
	return b
}

// Required marks this object as required when nested in another object.
func (b *ObjectBuilder) Required() *RequiredField { return &RequiredField{builder: b} }

func (b *ObjectBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *ObjectBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *ObjectBuilder) node() *schemaNode               { return b.n }

// String creates a string schema builder.
func String() *StringBuilder {
	return &StringBuilder{n: &schemaNode{Type: "string"}}
}

// StringBuilder constructs string schemas.
type StringBuilder struct {
	n *schemaNode
}

// Desc sets the field description.
func (b *StringBuilder) Desc(d string) *StringBuilder {
	b.n.Description = d
	return b
}

// Enum restricts the value to the given options.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.n.Enum = make([]any, len(values))
	for i, v := range values {
		b.n.Enum[i] = v
	}
	return b
}

// Pattern sets a regex the value must match.
func (b *StringBuilder) Pattern(regex string) *StringBuilder {
	b.n.Pattern = regex
	return b
}

// Default sets the default value.
func (b *StringBuilder) Default(v string) *StringBuilder {
	b.n.Default = v
	return b
}

// Required marks this field as required in the enclosing object.
func (b *StringBuilder) Required() *RequiredField { return &RequiredField{builder: b} }

func (b *StringBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *StringBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *StringBuilder) node() *schemaNode               { return b.n }

// Int creates an integer schema builder.
func Int() *NumberBuilder {
	return &NumberBuilder{n: &schemaNode{Type: "integer"}}
}

// Number creates a floating-point number schema builder.
func Number() *NumberBuilder {
	return &NumberBuilder{n: &schemaNode{Type: "number"}}
}

// NumberBuilder constructs integer and number schemas.
type NumberBuilder struct {
	n *schemaNode
}

// Desc sets the field description.
func (b *NumberBuilder) Desc(d string) *NumberBuilder {
	b.n.Description = d
	return b
}

// Min sets the minimum value, inclusive.
func (b *NumberBuilder) Min(v float64) *NumberBuilder {
	b.n.Minimum = ptr(v)
	return b
}

// Max sets the maximum value, inclusive.
func (b *NumberBuilder) Max(v float64) *NumberBuilder {
	b.n.Maximum = ptr(v)
	return b
}

// Default sets the default value.
func (b *NumberBuilder) Default(v float64) *NumberBuilder {
	b.n.Default = v
	return b
}

// Required marks this field as required in the enclosing object.
func (b *NumberBuilder) Required() *RequiredField { return &RequiredField{builder: b} }

func (b *NumberBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *NumberBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *NumberBuilder) node() *schemaNode               { return b.n }

// Bool creates a boolean schema builder.
func Bool() *BoolBuilder {
	return &BoolBuilder{n: &schemaNode{Type: "boolean"}}
}

// BoolBuilder constructs boolean schemas.
type BoolBuilder struct {
	n *schemaNode
}

// Desc sets the field description.
func (b *BoolBuilder) Desc(d string) *BoolBuilder {
	b.n.Description = d
	return b
}

// Default sets the default value.
func (b *BoolBuilder) Default(v bool) *BoolBuilder {
	b.n.Default = v
	return b
}

// Required marks this field as required in the enclosing object.
func (b *BoolBuilder) Required() *RequiredField { return &RequiredField{builder: b} }

func (b *BoolBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *BoolBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *BoolBuilder) node() *schemaNode               { return b.n }

// Array creates an array schema builder whose items follow the given schema.
func Array(items Builder) *ArrayBuilder {
	ab := &ArrayBuilder{n: &schemaNode{Type: "array"}}
	if items != nil {
		ab.n.Items = items.node()
	}
	return ab
}

// ArrayBuilder constructs array schemas.
type ArrayBuilder struct {
	n *schemaNode
}

// Desc sets the field description.
func (b *ArrayBuilder) Desc(d string) *ArrayBuilder {
	b.n.Description = d
	return b
}

// Required marks this field as required in the enclosing object.
func (b *ArrayBuilder) Required() *RequiredField { return &RequiredField{builder: b} }

func (b *ArrayBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *ArrayBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *ArrayBuilder) node() *schemaNode               { return b.n }
