package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/agentchat"
)

type alertArgs struct {
	Message string `json:"message" desc:"Text to display" required:"true"`
}

func TestRegistryRegister(t *testing.T) {
	t.Run("registers descriptor", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(MustDescribe[alertArgs]("alert", "Show an alert"))

		assert.Equal(t, 1, registry.Len())
		desc, ok := registry.Get("alert")
		assert.True(t, ok)
		assert.Equal(t, "Show an alert", desc.Description)
		assert.NotEmpty(t, desc.Parameters)
	})

	t.Run("re-registering upserts and keeps exactly one descriptor", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(ai.Tool{Name: "alert", Description: "first"})
		registry.Register(ai.Tool{Name: "alert", Description: "second"})

		assert.Equal(t, 1, registry.Len())
		enabled := registry.Enabled()
		require.Len(t, enabled, 1)
		assert.Equal(t, "second", enabled[0].Description)
	})

	t.Run("preserves registration order across upserts", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(ai.Tool{Name: "a"})
		registry.Register(ai.Tool{Name: "b"})
		registry.Register(ai.Tool{Name: "c"})
		registry.Register(ai.Tool{Name: "a", Description: "updated"})

		assert.Equal(t, []string{"a", "b", "c"}, registry.Names())
	})
}

func TestRegistryUnregister(t *testing.T) {
	t.Run("removes descriptor and binding", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(ai.Tool{Name: "alert"})
		registry.Bind("alert", Binding{Handler: func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", nil
		}})

		registry.Unregister("alert")

		assert.Equal(t, 0, registry.Len())
		_, ok := registry.GetBinding("alert")
		assert.False(t, ok)
	})

	t.Run("no-op when absent", func(t *testing.T) {
		registry := NewRegistry()
		assert.NotPanics(t, func() { registry.Unregister("missing") })
	})
}

func TestRegistryBind(t *testing.T) {
	t.Run("rebinding replaces without registration side effects", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(ai.Tool{Name: "alert"})

		var calls []string
		for _, label := range []string{"first", "second"} {
			registry.Bind("alert", Binding{Handler: func(ctx context.Context, call ai.ToolCall) (string, error) {
				calls = append(calls, label)
				return label, nil
			}})
		}

		assert.Equal(t, 1, registry.Len())
		b, ok := registry.GetBinding("alert")
		require.True(t, ok)
		result, err := b.Handler(context.Background(), ai.ToolCall{})
		require.NoError(t, err)
		assert.Equal(t, "second", result)
	})

	t.Run("binding without descriptor is not resolvable", func(t *testing.T) {
		registry := NewRegistry()
		registry.Bind("ghost", Binding{})

		_, ok := registry.Resolve("ghost")
		assert.False(t, ok)
	})
}

func TestRegistryResolve(t *testing.T) {
	t.Run("merges descriptor and binding", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(MustDescribe[alertArgs]("alert", "Show an alert"))
		registry.Bind("alert", Binding{Render: func(call ai.ToolCall) {}})

		reg, ok := registry.Resolve("alert")
		require.True(t, ok)
		assert.Equal(t, "alert", reg.Name)
		assert.NotNil(t, reg.Render)
		assert.Nil(t, reg.Handler)
	})

	t.Run("absent when descriptor missing", func(t *testing.T) {
		registry := NewRegistry()
		registry.Bind("alert", Binding{})
		_, ok := registry.Resolve("alert")
		assert.False(t, ok)
	})
}

func TestRegistryEnabled(t *testing.T) {
	t.Run("filters disabled tools in order", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(ai.Tool{Name: "a"})
		registry.Register(ai.Tool{Name: "b", Disabled: true})
		registry.Register(ai.Tool{Name: "c"})

		enabled := registry.Enabled()
		require.Len(t, enabled, 2)
		assert.Equal(t, "a", enabled[0].Name)
		assert.Equal(t, "c", enabled[1].Name)
	})

	t.Run("returns a snapshot unaffected by later changes", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(ai.Tool{Name: "a"})

		snapshot := registry.Enabled()
		registry.Register(ai.Tool{Name: "b"})
		registry.Unregister("a")

		require.Len(t, snapshot, 1)
		assert.Equal(t, "a", snapshot[0].Name)
	})
}

func TestTyped(t *testing.T) {
	t.Run("unmarshals arguments", func(t *testing.T) {
		h := Typed(func(ctx context.Context, args alertArgs) (string, error) {
			return "got: " + args.Message, nil
		})

		result, err := h(context.Background(), ai.ToolCall{Arguments: `{"message":"hi"}`})
		require.NoError(t, err)
		assert.Equal(t, "got: hi", result)
	})

	t.Run("returns error on invalid JSON", func(t *testing.T) {
		h := Typed(func(ctx context.Context, args alertArgs) (string, error) {
			return args.Message, nil
		})

		_, err := h(context.Background(), ai.ToolCall{Arguments: `{not json`})
		assert.Error(t, err)
	})
}
