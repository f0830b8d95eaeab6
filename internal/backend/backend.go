// Package backend resolves backend identifiers into runnable collaborators.
// A backend consumes the network read-only, simulates it for a duration in
// ms and writes recordings and runtime metrics back.
package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"cypress/internal/model"
	"cypress/internal/network"
)

var (
	ErrUnavailable = errors.New("backend unavailable")
	ErrExecution   = errors.New("backend execution failed")
)

// Backend is the run contract: simulate synchronously, fill the recording
// matrices of every flagged neuron, report runtime metrics, and touch
// nothing else on the network.
type Backend interface {
	Name() string
	Run(ctx context.Context, net *network.Network, duration model.Real) error
}

// Factory builds a backend from the name and setup parsed out of a backend
// identifier.
type Factory func(name string, setup map[string]any) (Backend, error)

var schemeRegistry = struct {
	mu sync.RWMutex
	m  map[string]Factory
}{
	m: make(map[string]Factory),
}

// Register adds a backend scheme.
func Register(scheme string, factory Factory) error {
	if scheme == "" {
		return errors.New("backend scheme is required")
	}
	if factory == nil {
		return errors.New("backend factory is required")
	}

	schemeRegistry.mu.Lock()
	defer schemeRegistry.mu.Unlock()

	if _, exists := schemeRegistry.m[scheme]; exists {
		return fmt.Errorf("backend scheme already registered: %s", scheme)
	}
	schemeRegistry.m[scheme] = factory
	return nil
}

// New resolves a backend identifier like "json.nest={\"timestep\":0.1}"
// into a runnable backend.
func New(id string) (Backend, error) {
	scheme, name, setup, err := Parse(id)
	if err != nil {
		return nil, err
	}

	schemeRegistry.mu.RLock()
	factory, ok := schemeRegistry.m[scheme]
	schemeRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown scheme %q", ErrUnavailable, scheme)
	}
	return factory(name, setup)
}

// List returns the sorted registered schemes.
func List() []string {
	schemeRegistry.mu.RLock()
	defer schemeRegistry.mu.RUnlock()

	schemes := make([]string, 0, len(schemeRegistry.m))
	for s := range schemeRegistry.m {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

func unavailable(scheme string) Factory {
	return func(name string, _ map[string]any) (Backend, error) {
		if name != "" {
			return nil, fmt.Errorf("%w: %s.%s requires a simulator toolchain this build does not ship", ErrUnavailable, scheme, name)
		}
		return nil, fmt.Errorf("%w: %s requires a simulator toolchain this build does not ship", ErrUnavailable, scheme)
	}
}

func init() {
	for _, reg := range []struct {
		scheme  string
		factory Factory
	}{
		{"json", newJSONTransport},
		{"null", newNullBackend},
		// Native simulator bindings are known schemes but need toolchains
		// absent from this build; documents reach them through json.<name>.
		{"nest", unavailable("nest")},
		{"pynn", unavailable("pynn")},
	} {
		if err := Register(reg.scheme, reg.factory); err != nil {
			panic(err)
		}
	}
}
