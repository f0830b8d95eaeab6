package neuron

import "cypress/internal/model"

// Type is the immutable descriptor of one neuron kind: its positional
// parameter schema, its recordable signals and its classification flags.
// Instances are shared via the registry and must not be mutated.
type Type struct {
	Name           string
	Parameters     []string
	ParameterUnits []string
	Defaults       []model.Real
	Signals        []string
	SignalUnits    []string

	// ConductanceBased marks types whose synaptic input is a conductance;
	// the sign of a synapse weight then selects the excitatory or
	// inhibitory reversal potential.
	ConductanceBased bool

	// SpikeSource marks virtual neurons that only emit spikes.
	SpikeSource bool

	// VariableParameters marks types whose parameter vector has no fixed
	// length (the spike source array stores its spike times there).
	VariableParameters bool
}

// ParameterIndex resolves a parameter name to its position.
func (t *Type) ParameterIndex(name string) (int, bool) {
	for i, n := range t.Parameters {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// SignalIndex resolves a signal name to its position.
func (t *Type) SignalIndex(name string) (int, bool) {
	for i, n := range t.Signals {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func (t *Type) ParameterCount() int { return len(t.Parameters) }

func (t *Type) SignalCount() int { return len(t.Signals) }

// DefaultParameters returns a fresh copy of the default parameter vector.
func (t *Type) DefaultParameters() []model.Real {
	return append([]model.Real(nil), t.Defaults...)
}

// ValidParameterCount reports whether a parameter vector of length n is
// acceptable for this type.
func (t *Type) ValidParameterCount(n int) bool {
	if t.VariableParameters {
		return true
	}
	return n == len(t.Parameters)
}
