// Package network holds the intermediate representation every backend
// consumes: populations of neurons with their parameter and recording
// stores, the connection descriptors between them, and cheap value handles
// over both. A Network is single-threaded; concurrent reads are safe only
// once mutation has stopped.
package network

import (
	"context"
	"fmt"

	"cypress/internal/connector"
	"cypress/internal/model"
	"cypress/internal/neuron"
)

// Runner is the contract a backend fulfils: simulate the network for the
// given duration in ms, fill the recording matrices and the runtime record.
type Runner interface {
	Run(ctx context.Context, net *Network, duration model.Real) error
}

// Network owns the population stores and connection descriptors. Population
// stores are pointer-stable for the lifetime of the Network; handles address
// them by population index.
type Network struct {
	pops    []*PopulationData
	conns   []connector.Descriptor
	runtime model.NetworkRuntime
}

func New() *Network {
	return &Network{}
}

// AddPopulation creates a population of the given type and size. A nil
// params uses the type's defaults; a single vector is shared homogeneously;
// size vectors give every neuron its own. The optional record names flag
// those signals for recording on all neurons.
func (n *Network) AddPopulation(typ *neuron.Type, size int, params [][]model.Real, name string, record ...string) (Population, error) {
	if typ == nil {
		return Population{}, fmt.Errorf("neuron type is required")
	}
	if size <= 0 {
		return Population{}, fmt.Errorf("%w: population size %d", ErrShapeMismatch, size)
	}

	data := newPopulationData(typ, size, name)
	switch {
	case params == nil:
	case len(params) == 1 || len(params) == size:
		if err := data.SetParameterRows(params); err != nil {
			return Population{}, err
		}
	default:
		return Population{}, fmt.Errorf("%w: %d parameter vectors for population of size %d", ErrShapeMismatch, len(params), size)
	}
	for _, sig := range record {
		i, ok := typ.SignalIndex(sig)
		if !ok {
			return Population{}, fmt.Errorf("unknown signal %q for type %s", sig, typ.Name)
		}
		if err := data.SetRecordFlag(0, model.NeuronIndex(size), i, true); err != nil {
			return Population{}, err
		}
	}

	n.pops = append(n.pops, data)
	pid := model.PopulationIndex(len(n.pops) - 1)
	return n.PopulationHandle(pid), nil
}

// Handle is any value handle over a neuron range: a Population, a View or a
// single NeuronHandle.
type Handle interface {
	view() View
}

// AddConnection records a projection from the source range to the target
// range. The connector must accept the resulting descriptor.
func (n *Network) AddConnection(src, tar Handle, conn connector.Connector, label string) (connector.Descriptor, error) {
	s, t := src.view(), tar.view()
	d := connector.Descriptor{
		SrcPop:   s.pid,
		TarPop:   t.pid,
		SrcBegin: s.begin,
		SrcEnd:   s.end,
		TarBegin: t.begin,
		TarEnd:   t.end,
		Label:    label,
		Conn:     conn,
	}
	if err := n.AddDescriptor(d); err != nil {
		return connector.Descriptor{}, err
	}
	return d, nil
}

// AddDescriptor appends a fully formed descriptor (the decode path).
func (n *Network) AddDescriptor(d connector.Descriptor) error {
	if int(d.SrcPop) < 0 || int(d.SrcPop) >= len(n.pops) ||
		int(d.TarPop) < 0 || int(d.TarPop) >= len(n.pops) {
		return fmt.Errorf("%w: population index out of range", ErrInvalidConnection)
	}
	if int(d.SrcEnd) > n.pops[d.SrcPop].size || int(d.TarEnd) > n.pops[d.TarPop].size {
		return fmt.Errorf("%w: neuron range exceeds population", ErrInvalidConnection)
	}
	if !d.Valid() {
		return fmt.Errorf("%w: %s refuses ranges [%d,%d) -> [%d,%d)", ErrInvalidConnection,
			connName(d.Conn), d.SrcBegin, d.SrcEnd, d.TarBegin, d.TarEnd)
	}
	n.conns = append(n.conns, d)
	return nil
}

func connName(c connector.Connector) string {
	if c == nil {
		return "<nil connector>"
	}
	return c.Name()
}

func (n *Network) PopulationCount() int { return len(n.pops) }

// Data returns the backing store of one population.
func (n *Network) Data(pid model.PopulationIndex) *PopulationData {
	return n.pops[pid]
}

// PopulationHandle returns the full-range handle for one population.
func (n *Network) PopulationHandle(pid model.PopulationIndex) Population {
	data := n.pops[pid]
	return Population{View{
		net:   n,
		pid:   pid,
		begin: 0,
		end:   model.NeuronIndex(data.size),
	}}
}

// Population returns the last created population with the given name.
func (n *Network) Population(name string) (Population, error) {
	for i := len(n.pops) - 1; i >= 0; i-- {
		if n.pops[i].name == name {
			return n.PopulationHandle(model.PopulationIndex(i)), nil
		}
	}
	return Population{}, fmt.Errorf("%w: %q", ErrNoSuchPopulation, name)
}

// Populations returns all populations with the given name, in insertion
// order. An empty name matches every population.
func (n *Network) Populations(name string) []Population {
	return n.PopulationsOfType(name, nil)
}

// PopulationsOfType filters by name and type; empty name or nil type mean no
// filter.
func (n *Network) PopulationsOfType(name string, typ *neuron.Type) []Population {
	var out []Population
	for i, p := range n.pops {
		if name != "" && p.name != name {
			continue
		}
		if typ != nil && p.typ != typ {
			continue
		}
		out = append(out, n.PopulationHandle(model.PopulationIndex(i)))
	}
	return out
}

// Connections returns the recorded connection descriptors in insertion
// order.
func (n *Network) Connections() []connector.Descriptor { return n.conns }

func (n *Network) Runtime() model.NetworkRuntime { return n.runtime }

func (n *Network) SetRuntime(rt model.NetworkRuntime) { n.runtime = rt }

// Duration returns the largest spike time across all spike source array
// populations, the natural simulation duration for the network. Spike times
// are scanned in full; their ordering is recommended but not enforced.
func (n *Network) Duration() model.Real {
	var max model.Real
	ssa := neuron.SpikeSourceArray()
	for _, p := range n.pops {
		if p.typ != ssa {
			continue
		}
		for _, row := range p.params {
			for _, v := range row {
				if v > max {
					max = v
				}
			}
		}
	}
	return max
}

// Clone returns a deep, independent copy. Connection descriptors keep
// sharing their connector instances; connectors are logically immutable
// apart from their PRNG state.
func (n *Network) Clone() *Network {
	c := &Network{
		pops:    make([]*PopulationData, len(n.pops)),
		conns:   append([]connector.Descriptor(nil), n.conns...),
		runtime: n.runtime,
	}
	for i, p := range n.pops {
		c.pops[i] = p.Clone()
	}
	return c
}

// Run hands the network to a backend. A non-positive duration falls back to
// the network's own duration, with a 1 ms floor so backends never run
// zero-length.
func (n *Network) Run(ctx context.Context, r Runner, duration model.Real) error {
	if r == nil {
		return fmt.Errorf("backend is required")
	}
	if duration <= 0 {
		duration = n.Duration()
		if duration < 1 {
			duration = 1
		}
	}
	return r.Run(ctx, n, duration)
}
