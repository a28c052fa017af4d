package tool

import (
	"slices"
	"sync"

	ai "github.com/spetersoncode/agentchat"
)

// Registry holds tool descriptors and their handler bindings.
// It is safe for concurrent use. Exactly one registry is owned by each chat
// facade; it is not a process-wide singleton.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]ai.Tool
	bindings    map[string]Binding
	order       []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]ai.Tool),
		bindings:    make(map[string]Binding),
	}
}

// Register adds or replaces the descriptor for t.Name. Registration is an
// idempotent upsert: a later Register with the same name overwrites the
// earlier descriptor while keeping its original position in registration
// order.
func (r *Registry) Register(t ai.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.descriptors[t.Name] = t
}

// Unregister removes the descriptor and its handler binding.
// It is a no-op if the tool is not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[name]; !exists {
		return
	}
	delete(r.descriptors, name)
	delete(r.bindings, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
}

// Bind adds or replaces the runtime binding for a tool name, independent of
// descriptor registration. Binding before Register is allowed; the pair only
// becomes resolvable once both exist.
func (r *Registry) Bind(name string, b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[name] = b
}

// Registered combines a descriptor with its runtime binding.
type Registered struct {
	ai.Tool
	Binding
}

// Resolve merges the descriptor and binding for name.
// Returns false if either is missing.
func (r *Registry) Resolve(name string) (Registered, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.descriptors[name]
	if !ok {
		return Registered{}, false
	}
	b, ok := r.bindings[name]
	if !ok {
		return Registered{}, false
	}
	return Registered{Tool: t, Binding: b}, true
}

// Get retrieves a descriptor by name.
func (r *Registry) Get(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.descriptors[name]
	return t, ok
}

// GetBinding retrieves the runtime binding by name.
func (r *Registry) GetBinding(name string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[name]
	return b, ok
}

// Enabled returns the descriptors whose Disabled flag is unset, in
// registration order. The result is a snapshot copy taken at call time, safe
// to serialize to the agent while the registry keeps changing.
func (r *Registry) Enabled() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.order))
	for _, name := range r.order {
		if t := r.descriptors[name]; !t.Disabled {
			tools = append(tools, t)
		}
	}
	return tools
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}
