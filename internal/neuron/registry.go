package neuron

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrTypeExists  = errors.New("neuron type already registered")
	ErrUnknownType = errors.New("unknown neuron type")
)

var typeRegistry = struct {
	mu      sync.RWMutex
	m       map[string]*Type
	aliases map[string]string
}{
	m:       make(map[string]*Type),
	aliases: make(map[string]string),
}

// Register adds a neuron type under its canonical name.
func Register(t *Type) error {
	if t == nil {
		return errors.New("neuron type is required")
	}
	if t.Name == "" {
		return errors.New("neuron type name is required")
	}
	if len(t.ParameterUnits) != len(t.Parameters) {
		return fmt.Errorf("neuron type %s: %d parameter units for %d parameters", t.Name, len(t.ParameterUnits), len(t.Parameters))
	}
	if !t.VariableParameters && len(t.Defaults) != len(t.Parameters) {
		return fmt.Errorf("neuron type %s: %d defaults for %d parameters", t.Name, len(t.Defaults), len(t.Parameters))
	}
	if len(t.SignalUnits) != len(t.Signals) {
		return fmt.Errorf("neuron type %s: %d signal units for %d signals", t.Name, len(t.SignalUnits), len(t.Signals))
	}

	typeRegistry.mu.Lock()
	defer typeRegistry.mu.Unlock()

	if _, exists := typeRegistry.m[t.Name]; exists {
		return fmt.Errorf("%w: %s", ErrTypeExists, t.Name)
	}
	typeRegistry.m[t.Name] = t
	return nil
}

// RegisterAlias makes an alternate name resolve to a registered type.
func RegisterAlias(alias, canonical string) error {
	if alias == "" || canonical == "" {
		return errors.New("alias and canonical name are required")
	}

	typeRegistry.mu.Lock()
	defer typeRegistry.mu.Unlock()

	if _, exists := typeRegistry.m[alias]; exists {
		return fmt.Errorf("%w: %s", ErrTypeExists, alias)
	}
	if _, exists := typeRegistry.aliases[alias]; exists {
		return fmt.Errorf("%w: %s", ErrTypeExists, alias)
	}
	if _, ok := typeRegistry.m[canonical]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownType, canonical)
	}
	typeRegistry.aliases[alias] = canonical
	return nil
}

// Lookup resolves a canonical name or alias without failing.
func Lookup(name string) (*Type, bool) {
	typeRegistry.mu.RLock()
	defer typeRegistry.mu.RUnlock()

	if t, ok := typeRegistry.m[name]; ok {
		return t, true
	}
	if canonical, ok := typeRegistry.aliases[name]; ok {
		if t, ok := typeRegistry.m[canonical]; ok {
			return t, true
		}
	}
	return nil, false
}

// Resolve is Lookup with an error for unknown names.
func Resolve(name string) (*Type, error) {
	if t, ok := Lookup(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
}

// List returns the sorted canonical type names.
func List() []string {
	typeRegistry.mu.RLock()
	defer typeRegistry.mu.RUnlock()

	names := make([]string, 0, len(typeRegistry.m))
	for n := range typeRegistry.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
