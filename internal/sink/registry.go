package sink

import "fmt"

// Registry is a name-keyed table of sink Factories, populated at
// startup by explicit Register calls from the daemon's wiring code.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a plugin factory under name, overwriting any previous
// registration — the last call for a given name wins, matching the
// teacher's config-driven override style.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Build instantiates a Config's sink via its registered plugin.
func (r *Registry) Build(cfg Config) (Sink, error) {
	f, ok := r.factories[cfg.Plugin]
	if !ok {
		return nil, fmt.Errorf("sink: no plugin registered for %q", cfg.Plugin)
	}
	return f(cfg)
}

// Names reports the currently registered plugin names, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
