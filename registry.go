package ndsort

import (
	"fmt"
	"slices"

	"github.com/hupe1980/ndsort/hybrid"
	"github.com/hupe1980/ndsort/rankquery"
)

// Factory creates a sorter of a named configuration. Options passed by the
// caller are applied after the configuration's own.
type Factory func(maxPoints, maxDimension int, optFns ...Option) (*Sorter, error)

// Registry maps configuration identifiers to factories. It is an ordinary
// value: build one at startup and pass it to whatever resolves names.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("%w: registry entry needs a name and a factory", ErrInvalidArgument)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAlgorithm, name)
	}
	r.factories[name] = f
	return nil
}

// New creates a sorter of the named configuration.
func (r *Registry) New(name string, maxPoints, maxDimension int, optFns ...Option) (*Sorter, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return f(maxPoints, maxDimension, optFns...)
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset returns a factory for a fixed set of options.
func Preset(preset ...Option) Factory {
	return func(maxPoints, maxDimension int, optFns ...Option) (*Sorter, error) {
		all := append(slices.Clip(preset), optFns...)
		return New(maxPoints, maxDimension, all...)
	}
}

// DefaultRegistry returns a new registry holding every built-in
// configuration: each backend with and without the quadratic hybrid, and
// the concurrent backends with 2, 4 and unlimited threads. Names follow
// "jfb.<backend>[.<hybrid>][.t<threads>|.tmax]".
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, kind := range rankquery.Kinds() {
		threads := []int{1, 2, 4, UnlimitedThreads}
		if kind == rankquery.KindVanEmdeBoas {
			threads = threads[:1]
		}
		for _, strategy := range []hybrid.Strategy{hybrid.None{}, hybrid.Quadratic{}} {
			for _, t := range threads {
				name := configName(kind, strategy.Name(), t)
				// names are unique by construction
				_ = r.Register(name, Preset(WithBackend(kind), WithHybrid(strategy), WithThreads(t)))
			}
		}
	}
	return r
}
