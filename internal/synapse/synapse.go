// Package synapse defines the synapse models a connection can carry: a
// static weight/delay pair and the plasticity mechanisms some simulators
// implement natively. A model is a named positional parameter vector; the
// first two slots are always weight and delay.
package synapse

import (
	"errors"
	"fmt"

	"cypress/internal/model"
)

var ErrUnknownModel = errors.New("unknown synapse model")

// Model describes one synapse: its wire name, its positional parameters and
// whether the model adapts weights during a run.
type Model interface {
	Name() string
	ParameterNames() []string
	Parameters() []model.Real
	SetParameters(params []model.Real) error
	Weight() model.Real
	Delay() model.Real
	Learning() bool
	Clone() Model
}

type synapseModel struct {
	name     string
	names    []string
	params   []model.Real
	learning bool
}

func (s *synapseModel) Name() string { return s.name }

func (s *synapseModel) ParameterNames() []string { return s.names }

func (s *synapseModel) Parameters() []model.Real {
	return append([]model.Real(nil), s.params...)
}

func (s *synapseModel) SetParameters(params []model.Real) error {
	if len(params) != len(s.names) {
		return fmt.Errorf("synapse %s: got %d parameters, want %d", s.name, len(params), len(s.names))
	}
	s.params = append([]model.Real(nil), params...)
	return nil
}

func (s *synapseModel) Weight() model.Real { return s.params[0] }

func (s *synapseModel) Delay() model.Real { return s.params[1] }

func (s *synapseModel) Learning() bool { return s.learning }

func (s *synapseModel) Clone() Model {
	c := *s
	c.params = append([]model.Real(nil), s.params...)
	return &c
}
