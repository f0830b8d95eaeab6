package synapse

import (
	"fmt"
	"sort"

	"cypress/internal/model"
)

type modelSpec struct {
	names    []string
	defaults []model.Real
	learning bool
}

var modelSpecs = map[string]modelSpec{
	"StaticSynapse": {
		names:    []string{"weight", "delay"},
		defaults: []model.Real{0.015, 1.0},
	},
	"SpikePairRuleAdditive": {
		names: []string{
			"weight", "delay", "tau_plus", "tau_minus",
			"A_plus", "A_minus", "w_min", "w_max",
		},
		defaults: []model.Real{0.015, 1, 20, 20, 0.01, 0.01, 0, 0.1},
		learning: true,
	},
	"SpikePairRuleMultiplicative": {
		names: []string{
			"weight", "delay", "tau_plus", "tau_minus",
			"A_plus", "A_minus", "w_min", "w_max",
		},
		defaults: []model.Real{0.015, 1, 20, 20, 0.01, 0.01, 0, 0.1},
		learning: true,
	},
	"TsodyksMarkramMechanism": {
		names:    []string{"weight", "delay", "U", "tau_rec", "tau_facil"},
		defaults: []model.Real{0.015, 1, 0, 100, 0},
	},
}

func newModel(name string) *synapseModel {
	spec := modelSpecs[name]
	return &synapseModel{
		name:     name,
		names:    spec.names,
		params:   append([]model.Real(nil), spec.defaults...),
		learning: spec.learning,
	}
}

// Static returns a static synapse with the given weight and delay.
func Static(weight, delay model.Real) Model {
	s := newModel("StaticSynapse")
	s.params[0] = weight
	s.params[1] = delay
	return s
}

// StaticDefault returns a static synapse with the default weight and delay.
func StaticDefault() Model { return newModel("StaticSynapse") }

// SpikePairRuleAdditive returns the additive STDP pair rule with default
// parameters.
func SpikePairRuleAdditive() Model { return newModel("SpikePairRuleAdditive") }

// SpikePairRuleMultiplicative returns the multiplicative STDP pair rule with
// default parameters.
func SpikePairRuleMultiplicative() Model { return newModel("SpikePairRuleMultiplicative") }

// TsodyksMarkramMechanism returns the short-term plasticity mechanism with
// default parameters.
func TsodyksMarkramMechanism() Model { return newModel("TsodyksMarkramMechanism") }

// FromName reconstructs a model from its wire name and parameter vector, as
// found in a serialized connection entry. A nil params keeps the defaults.
func FromName(name string, params []model.Real) (Model, error) {
	if _, ok := modelSpecs[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	s := newModel(name)
	if params != nil {
		if err := s.SetParameters(params); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// List returns the sorted wire names of all synapse models.
func List() []string {
	names := make([]string, 0, len(modelSpecs))
	for n := range modelSpecs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
