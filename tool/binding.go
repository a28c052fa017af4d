package tool

import (
	"context"
	"encoding/json"

	ai "github.com/spetersoncode/agentchat"
)

// Handler is a function that executes a tool call for its side effects.
// The context supports cancellation and timeout. The call contains the tool
// name, ID, and arguments as a JSON string. Handler failures never abort a
// run; they are logged and the invocation is still marked complete.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// RenderFunc is invoked by the presentation layer to draw a custom widget
// for a tool call. The reducer never calls it; the presence of a render
// binding only decides that a widget message is appended for the call.
type RenderFunc func(call ai.ToolCall)

// WaitFunc renders a widget and blocks until the user responds, returning
// the response content (human-in-the-loop tools).
type WaitFunc func(ctx context.Context, call ai.ToolCall) (string, error)

// Binding is the runtime behavior of a registered tool. All fields are
// optional; an empty Binding still makes the tool resolvable.
//
// Bindings are kept in a store separate from descriptors because they wrap
// closures recreated on every render pass, while descriptors are registered
// once. Replacing a binding is an idempotent upsert.
type Binding struct {
	// Handler executes the call as a fire-and-forget side effect.
	Handler Handler
	// Render defers drawing of the call to the presentation layer.
	// Checked only when Handler is nil.
	Render RenderFunc
	// RenderAndWait renders and blocks for a user response. Treated like
	// Render at reduce time; the wait cycle is driven by the presentation
	// layer.
	RenderAndWait WaitFunc
}

// Typed adapts a handler with typed arguments into a Handler.
// The args are unmarshaled from the call's JSON arguments:
//
//	tool.Typed(func(ctx context.Context, args alertArgs) (string, error) {
//	    showAlert(args.Message)
//	    return "shown", nil
//	})
func Typed[T any](fn func(ctx context.Context, args T) (string, error)) Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if err := json.Unmarshal(call.Args(), &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}
}

// Describe builds a descriptor for a tool whose parameters are the struct
// type T, using SchemaFor for the parameter schema.
func Describe[T any](name, description string) (ai.Tool, error) {
	schema, err := SchemaFor[T]()
	if err != nil {
		return ai.Tool{}, err
	}
	return ai.Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}, nil
}

// MustDescribe is like Describe but panics on error.
func MustDescribe[T any](name, description string) ai.Tool {
	t, err := Describe[T](name, description)
	if err != nil {
		panic(err)
	}
	return t
}
