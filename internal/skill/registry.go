package skill

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds one factory per skill name, lazily instantiating and
// caching each Skill on first use, grounded in
// original_source/nexus3/skill/registry.py's SkillRegistry.
type Registry struct {
	services *Services

	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]Skill
	order     []string
}

// NewRegistry builds an empty Registry bound to services.
func NewRegistry(services *Services) *Registry {
	return &Registry{
		services:  services,
		factories: make(map[string]Factory),
		instances: make(map[string]Skill),
	}
}

// Register adds a named factory. Registering the same name twice replaces
// the factory and drops any cached instance.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = f
	delete(r.instances, name)
}

// Names returns every registered skill name, in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the (lazily constructed, cached) Skill for name.
func (r *Registry) Get(name string) (Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.instances[name]; ok {
		return s, nil
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("skill %q not found", name)
	}
	s := f(r.services)
	r.instances[name] = s
	return s, nil
}

// Execute looks up name and runs it with args, converting a lookup failure
// into a Result rather than propagating a Go error — matching spec.md §6.4's
// "errors are returned as values at the skill boundary".
func (r *Registry) Execute(ctx context.Context, name string, args Args) Result {
	s, err := r.Get(name)
	if err != nil {
		return FailErr(err)
	}
	return s.Execute(ctx, args)
}

// ToolFunction is the "function" object inside an OpenAI-style tool
// definition.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolDefinition is one entry of the tool-call definitions list an agent
// host passes to a model, per spec.md §6.4.
type ToolDefinition struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// Definitions returns the OpenAI-function-calling-shaped definitions for
// every registered skill, sorted by name for deterministic output. Each
// definition is read from the Skill returned by Get, so every registered
// skill not yet constructed is built and cached by this call.
func (r *Registry) Definitions() []ToolDefinition {
	names := r.Names()
	sort.Strings(names)
	defs := make([]ToolDefinition, 0, len(names))
	for _, name := range names {
		s, err := r.Get(name)
		if err != nil {
			continue
		}
		defs = append(defs, ToolDefinition{
			Type: "function",
			Function: ToolFunction{
				Name:        s.Name(),
				Description: s.Description(),
				Parameters:  s.Parameters(),
			},
		})
	}
	return defs
}
