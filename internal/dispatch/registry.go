package dispatch

import (
	"fmt"

	"github.com/starford/berkano/internal/apperr"
)

type claimed struct {
	module  string
	handler Handler
}

// Registry is the table of registered modules and their bindings. It is
// built once at startup by explicit construction and sealed when a
// dispatcher is created over it; registration afterwards fails fast.
//
// Not safe for mutation concurrently with dispatch.
type Registry struct {
	modules  map[string]struct{}
	bindings map[Binding]claimed
	sealed   bool
}

// NewRegistry validates and registers the given modules eagerly. On error
// the registry is unusable and none of the offending module's bindings are
// active.
func NewRegistry(modules ...Module) (*Registry, error) {
	r := &Registry{
		modules:  make(map[string]struct{}),
		bindings: make(map[Binding]claimed),
	}
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a module. Registering a name twice, or claiming a binding
// already owned by another module in the same mode, is a caller error:
// the module is rejected whole, nothing is overwritten.
func (r *Registry) Register(m Module) error {
	if r.sealed {
		return fmt.Errorf("%w: cannot register %q after dispatch has started", apperr.ErrRegistrySealed, m.Name)
	}
	if m.Name == "" {
		return fmt.Errorf("module name is required")
	}
	if _, exists := r.modules[m.Name]; exists {
		return fmt.Errorf("%w: %q", apperr.ErrDuplicateModule, m.Name)
	}
	// Validate every binding before committing any of them.
	for b := range m.Bindings {
		if owner, taken := r.bindings[b]; taken {
			return fmt.Errorf("%w: key %q in %s mode claimed by both %q and %q",
				apperr.ErrConflictingBinding, b.Key, b.Mode, owner.module, m.Name)
		}
	}

	r.modules[m.Name] = struct{}{}
	for b, h := range m.Bindings {
		r.bindings[b] = claimed{module: m.Name, handler: h}
	}
	return nil
}

// Resolve looks up the handler bound to key under mode. Absence is not an
// error; it means "no action for this key".
func (r *Registry) Resolve(mode Mode, key Key) (Handler, bool) {
	c, ok := r.bindings[Binding{Mode: mode, Key: key}]
	if !ok {
		return nil, false
	}
	return c.handler, true
}

// seal freezes the registry; called when a dispatcher takes ownership.
func (r *Registry) seal() {
	r.sealed = true
}
