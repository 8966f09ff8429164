package reduce

import (
	"fmt"
	"log/slog"

	"github.com/roach88/irreduce/internal/ir"
)

// Pass is a named module reduction.
// Apply mutates m in place. It must not retain m after returning.
type Pass interface {
	Name() string
	Apply(m *ir.Module)
}

// Registry holds the passes available to the driver, in registration order.
type Registry struct {
	passes []Pass
	byName map[string]Pass
}

// NewRegistry creates a registry with the given passes.
// Panics on duplicate names; use Register to handle the error.
func NewRegistry(passes ...Pass) *Registry {
	r := &Registry{byName: make(map[string]Pass)}
	for _, p := range passes {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// DefaultRegistry returns a registry with every built-in pass.
func DefaultRegistry(logger *slog.Logger) *Registry {
	return NewRegistry(&StructPass{Logger: logger})
}

// Register adds a pass. Names must be unique.
func (r *Registry) Register(p Pass) error {
	name := p.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("pass %q already registered", name)
	}
	r.byName[name] = p
	r.passes = append(r.passes, p)
	return nil
}

// Lookup returns the pass registered under name.
func (r *Registry) Lookup(name string) (Pass, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the registered pass names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.passes))
	for i, p := range r.passes {
		names[i] = p.Name()
	}
	return names
}

// Select resolves names to passes, in the order given.
// An empty list selects every registered pass.
func (r *Registry) Select(names []string) ([]Pass, error) {
	if len(names) == 0 {
		out := make([]Pass, len(r.passes))
		copy(out, r.passes)
		return out, nil
	}

	out := make([]Pass, 0, len(names))
	for _, name := range names {
		p, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown pass %q (available: %v)", name, r.Names())
		}
		out = append(out, p)
	}
	return out, nil
}
