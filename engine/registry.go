package engine

import (
	"errors"
	"fmt"
	"slices"
)

// Registry is the ordered set of configured engines. Registration order is
// the configured engine order that fusion relies on for determinism.
// A Registry is built once and then only read.
type Registry struct {
	engines []Recognizer
}

// NewRegistry registers engines in the given order.
func NewRegistry(engines ...Recognizer) (*Registry, error) {
	r := &Registry{}
	for _, e := range engines {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends e. Names must be non-empty and unique.
func (r *Registry) Register(e Recognizer) error {
	if e == nil {
		return errors.New("nil recognizer")
	}
	name := e.Name()
	if name == "" {
		return errors.New("recognizer has an empty name")
	}
	if slices.ContainsFunc(r.engines, func(x Recognizer) bool { return x.Name() == name }) {
		return fmt.Errorf("recognizer %q registered twice", name)
	}
	r.engines = append(r.engines, e)
	return nil
}

// Engines returns the registered engines in order.
func (r *Registry) Engines() []Recognizer {
	if r == nil {
		return nil
	}
	return slices.Clone(r.engines)
}

// Names returns the registered engine names in order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.engines))
	for i, e := range r.engines {
		names[i] = e.Name()
	}
	return names
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.engines)
}
