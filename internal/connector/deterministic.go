package connector

import (
	"cypress/internal/model"
	"cypress/internal/synapse"
)

type allToAll struct {
	syn       synapse.Model
	allowSelf bool
}

// AllToAll connects every source neuron to every target neuron with a static
// synapse. With allowSelf false and source and target in one population, the
// diagonal pairs are skipped.
func AllToAll(weight, delay model.Real, allowSelf bool) Connector {
	return AllToAllSynapse(synapse.Static(weight, delay), allowSelf)
}

func AllToAllSynapse(syn synapse.Model, allowSelf bool) Connector {
	return &allToAll{syn: syn, allowSelf: allowSelf}
}

func (c *allToAll) Name() string { return "AllToAllConnector" }

func (c *allToAll) Valid(d Descriptor) bool {
	return d.RangesValid() && c.syn != nil
}

func (c *allToAll) Connect(d Descriptor) []Connection {
	params := c.syn.Parameters()
	out := make([]Connection, 0, d.SrcCount()*d.TarCount())
	for s := d.SrcBegin; s < d.SrcEnd; s++ {
		for t := d.TarBegin; t < d.TarEnd; t++ {
			if !c.allowSelf && d.SamePopulation() && s == t {
				continue
			}
			out = append(out, Connection{Src: s, Tar: t, Params: params})
		}
	}
	return out
}

func (c *allToAll) Group(d Descriptor) (Group, bool) { return groupFor(d, c), true }

func (c *allToAll) AllowSelfConnections() bool { return c.allowSelf }

func (c *allToAll) AdditionalParameter() model.Real { return 0 }

func (c *allToAll) Synapse() synapse.Model { return c.syn }

type oneToOne struct {
	syn synapse.Model
}

// OneToOne connects the i-th source neuron to the i-th target neuron. Both
// ranges must have the same size.
func OneToOne(weight, delay model.Real) Connector {
	return OneToOneSynapse(synapse.Static(weight, delay))
}

func OneToOneSynapse(syn synapse.Model) Connector {
	return &oneToOne{syn: syn}
}

func (c *oneToOne) Name() string { return "OneToOneConnector" }

func (c *oneToOne) Valid(d Descriptor) bool {
	return d.RangesValid() && c.syn != nil && d.SrcCount() == d.TarCount()
}

func (c *oneToOne) Connect(d Descriptor) []Connection {
	params := c.syn.Parameters()
	out := make([]Connection, 0, d.SrcCount())
	for k := 0; k < d.SrcCount(); k++ {
		out = append(out, Connection{
			Src:    d.SrcBegin + model.NeuronIndex(k),
			Tar:    d.TarBegin + model.NeuronIndex(k),
			Params: params,
		})
	}
	return out
}

func (c *oneToOne) Group(d Descriptor) (Group, bool) { return groupFor(d, c), true }

func (c *oneToOne) AllowSelfConnections() bool { return true }

func (c *oneToOne) AdditionalParameter() model.Real { return 0 }

func (c *oneToOne) Synapse() synapse.Model { return c.syn }

type fromList struct {
	name       string
	syn        synapse.Model
	entries    []Connection
	additional model.Real
	allowSelf  bool

	// decoded marks lists rebuilt from the wire, where an empty list is a
	// legitimate materialization result rather than a user mistake.
	decoded bool
}

// FromList emits the given synapses verbatim, in list order. Entries outside
// the descriptor's ranges, with zero weight or with negative delay are
// silently dropped.
func FromList(entries []Connection) Connector {
	return &fromList{
		name:      "FromListConnector",
		syn:       synapse.StaticDefault(),
		entries:   entries,
		allowSelf: true,
	}
}

func (c *fromList) Name() string { return c.name }

func (c *fromList) Valid(d Descriptor) bool {
	return d.RangesValid() && (len(c.entries) > 0 || c.decoded)
}

func (c *fromList) Connect(d Descriptor) []Connection {
	out := make([]Connection, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Src < d.SrcBegin || e.Src >= d.SrcEnd {
			continue
		}
		if e.Tar < d.TarBegin || e.Tar >= d.TarEnd {
			continue
		}
		if !e.Valid() {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (c *fromList) Group(Descriptor) (Group, bool) { return Group{}, false }

func (c *fromList) AllowSelfConnections() bool { return c.allowSelf }

func (c *fromList) AdditionalParameter() model.Real { return c.additional }

func (c *fromList) Synapse() synapse.Model { return c.syn }

// Callback computes the synapse parameter vector for one source/target pair.
// A nil result means no connection.
type Callback func(src, tar model.NeuronIndex) []model.Real

// Predicate decides whether one source/target pair is connected.
type Predicate func(src, tar model.NeuronIndex) bool

type functorConnector struct {
	name string
	syn  synapse.Model
	f    Callback
}

// Functor calls f for every source/target pair in source-major order and
// emits the pairs for which f returns a realizable synapse.
func Functor(f Callback) Connector {
	return &functorConnector{
		name: "FunctorConnector",
		syn:  synapse.StaticDefault(),
		f:    f,
	}
}

// UniformFunctor connects the pairs selected by pred, all with one shared
// weight and delay.
func UniformFunctor(pred Predicate, weight, delay model.Real) Connector {
	return UniformFunctorSynapse(pred, synapse.Static(weight, delay))
}

func UniformFunctorSynapse(pred Predicate, syn synapse.Model) Connector {
	params := syn.Parameters()
	return &functorConnector{
		name: "UniformFunctorConnector",
		syn:  syn,
		f: func(src, tar model.NeuronIndex) []model.Real {
			if !pred(src, tar) {
				return nil
			}
			return params
		},
	}
}

func (c *functorConnector) Name() string { return c.name }

func (c *functorConnector) Valid(d Descriptor) bool {
	return d.RangesValid() && c.f != nil
}

func (c *functorConnector) Connect(d Descriptor) []Connection {
	var out []Connection
	for s := d.SrcBegin; s < d.SrcEnd; s++ {
		for t := d.TarBegin; t < d.TarEnd; t++ {
			conn := Connection{Src: s, Tar: t, Params: c.f(s, t)}
			if conn.Valid() {
				out = append(out, conn)
			}
		}
	}
	return out
}

func (c *functorConnector) Group(Descriptor) (Group, bool) { return Group{}, false }

func (c *functorConnector) AllowSelfConnections() bool { return true }

func (c *functorConnector) AdditionalParameter() model.Real { return 0 }

func (c *functorConnector) Synapse() synapse.Model { return c.syn }
