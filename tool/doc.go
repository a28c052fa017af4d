// Package tool manages the frontend tool registry: declared capability
// descriptors plus the runtime handler bindings that execute or render them.
//
// Descriptors and bindings live in separate stores because they have
// different lifecycles. A descriptor is registered once (typically when a UI
// component mounts) and is serialized to the agent as an available
// capability at run start. A binding wraps runtime closures that are
// recreated on every render pass; rebinding is an idempotent upsert with no
// registration side effects, so UI code can call [Registry.Bind] freely.
//
// # Usage
//
// Declare a tool from a typed argument struct and bind its handler:
//
//	registry := tool.NewRegistry()
//	registry.Register(tool.MustDescribe[alertArgs]("alert", "Show an alert"))
//	registry.Bind("alert", tool.Binding{
//	    Handler: tool.Typed(func(ctx context.Context, args alertArgs) (string, error) {
//	        showAlert(args.Message)
//	        return "shown", nil
//	    }),
//	})
//
// The snapshot sent to the agent comes from [Registry.Enabled], which
// preserves registration order.
package tool
