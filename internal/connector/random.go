package connector

import (
	mrand "math/rand"

	"cypress/internal/model"
	"cypress/internal/synapse"
)

// Random connectors own their PRNG engine; repeated Connect calls advance it
// and yield different draws. Callers that need reproducibility construct the
// connector with an explicit seed.

type fixedProbability struct {
	inner Connector
	p     model.Real
	rng   *mrand.Rand
}

// FixedProbability materializes the inner connector and keeps each synapse
// with probability p, one independent Bernoulli draw per synapse.
func FixedProbability(inner Connector, p model.Real) Connector {
	return FixedProbabilitySeed(inner, p, entropySeed())
}

func FixedProbabilitySeed(inner Connector, p model.Real, seed int64) Connector {
	return &fixedProbability{inner: inner, p: p, rng: newRNG(seed)}
}

func (c *fixedProbability) Name() string { return "FixedProbabilityConnector" }

func (c *fixedProbability) Valid(d Descriptor) bool {
	return d.RangesValid() && c.inner != nil && c.inner.Valid(d) && c.p >= 0 && c.p <= 1
}

func (c *fixedProbability) Connect(d Descriptor) []Connection {
	all := c.inner.Connect(d)
	out := make([]Connection, 0, len(all))
	for _, conn := range all {
		if c.rng.Float64() < c.p {
			out = append(out, conn)
		}
	}
	return out
}

func (c *fixedProbability) Group(d Descriptor) (Group, bool) {
	if _, ok := c.inner.Group(d); !ok || c.p <= 0 || c.p > 1 {
		return Group{}, false
	}
	return groupFor(d, c), true
}

func (c *fixedProbability) AllowSelfConnections() bool { return c.inner.AllowSelfConnections() }

func (c *fixedProbability) AdditionalParameter() model.Real { return c.p }

func (c *fixedProbability) Synapse() synapse.Model { return c.inner.Synapse() }

type randomConnector struct {
	syn       synapse.Model
	p         model.Real
	allowSelf bool
	rng       *mrand.Rand
}

// Random behaves like FixedProbability over AllToAll but always exposes the
// compact group form, for backends with a native random connector.
func Random(weight, delay, p model.Real, allowSelf bool) Connector {
	return RandomSeed(weight, delay, p, allowSelf, entropySeed())
}

func RandomSeed(weight, delay, p model.Real, allowSelf bool, seed int64) Connector {
	return RandomSynapseSeed(synapse.Static(weight, delay), p, allowSelf, seed)
}

func RandomSynapse(syn synapse.Model, p model.Real, allowSelf bool) Connector {
	return RandomSynapseSeed(syn, p, allowSelf, entropySeed())
}

func RandomSynapseSeed(syn synapse.Model, p model.Real, allowSelf bool, seed int64) Connector {
	return &randomConnector{syn: syn, p: p, allowSelf: allowSelf, rng: newRNG(seed)}
}

func (c *randomConnector) Name() string { return "RandomConnector" }

func (c *randomConnector) Valid(d Descriptor) bool {
	return d.RangesValid() && c.syn != nil && c.p >= 0 && c.p <= 1
}

func (c *randomConnector) Connect(d Descriptor) []Connection {
	params := c.syn.Parameters()
	var out []Connection
	for s := d.SrcBegin; s < d.SrcEnd; s++ {
		for t := d.TarBegin; t < d.TarEnd; t++ {
			if !c.allowSelf && d.SamePopulation() && s == t {
				continue
			}
			if c.rng.Float64() < c.p {
				out = append(out, Connection{Src: s, Tar: t, Params: params})
			}
		}
	}
	return out
}

func (c *randomConnector) Group(d Descriptor) (Group, bool) { return groupFor(d, c), true }

func (c *randomConnector) AllowSelfConnections() bool { return c.allowSelf }

func (c *randomConnector) AdditionalParameter() model.Real { return c.p }

func (c *randomConnector) Synapse() synapse.Model { return c.syn }

type fixedFanIn struct {
	n         int
	syn       synapse.Model
	allowSelf bool
	rng       *mrand.Rand
}

// FixedFanIn gives every target neuron exactly n distinct source neurons,
// sampled uniformly without replacement.
func FixedFanIn(n int, weight, delay model.Real, allowSelf bool) Connector {
	return FixedFanInSeed(n, weight, delay, allowSelf, entropySeed())
}

func FixedFanInSeed(n int, weight, delay model.Real, allowSelf bool, seed int64) Connector {
	return FixedFanInSynapseSeed(n, synapse.Static(weight, delay), allowSelf, seed)
}

func FixedFanInSynapseSeed(n int, syn synapse.Model, allowSelf bool, seed int64) Connector {
	return &fixedFanIn{n: n, syn: syn, allowSelf: allowSelf, rng: newRNG(seed)}
}

func (c *fixedFanIn) Name() string { return "FixedFanInConnector" }

func (c *fixedFanIn) Valid(d Descriptor) bool {
	if !d.RangesValid() || c.syn == nil || c.n < 0 {
		return false
	}
	avail := d.SrcCount()
	if !c.allowSelf && d.SamePopulation() {
		avail--
	}
	return c.n <= avail
}

func (c *fixedFanIn) Connect(d Descriptor) []Connection {
	params := c.syn.Parameters()
	out := make([]Connection, 0, c.n*d.TarCount())
	for t := d.TarBegin; t < d.TarEnd; t++ {
		candidates := rangeCandidates(d.SrcBegin, d.SrcEnd, t, !c.allowSelf && d.SamePopulation())
		for _, s := range sampleWithoutReplacement(c.rng, candidates, c.n) {
			out = append(out, Connection{Src: s, Tar: t, Params: params})
		}
	}
	return out
}

func (c *fixedFanIn) Group(d Descriptor) (Group, bool) { return groupFor(d, c), true }

func (c *fixedFanIn) AllowSelfConnections() bool { return c.allowSelf }

func (c *fixedFanIn) AdditionalParameter() model.Real { return model.Real(c.n) }

func (c *fixedFanIn) Synapse() synapse.Model { return c.syn }

type fixedFanOut struct {
	n         int
	syn       synapse.Model
	allowSelf bool
	rng       *mrand.Rand
}

// FixedFanOut gives every source neuron exactly n distinct target neurons,
// sampled uniformly without replacement. It has no compact group form.
func FixedFanOut(n int, weight, delay model.Real, allowSelf bool) Connector {
	return FixedFanOutSeed(n, weight, delay, allowSelf, entropySeed())
}

func FixedFanOutSeed(n int, weight, delay model.Real, allowSelf bool, seed int64) Connector {
	return FixedFanOutSynapseSeed(n, synapse.Static(weight, delay), allowSelf, seed)
}

func FixedFanOutSynapseSeed(n int, syn synapse.Model, allowSelf bool, seed int64) Connector {
	return &fixedFanOut{n: n, syn: syn, allowSelf: allowSelf, rng: newRNG(seed)}
}

func (c *fixedFanOut) Name() string { return "FixedFanOutConnector" }

func (c *fixedFanOut) Valid(d Descriptor) bool {
	if !d.RangesValid() || c.syn == nil || c.n < 0 {
		return false
	}
	avail := d.TarCount()
	if !c.allowSelf && d.SamePopulation() {
		avail--
	}
	return c.n <= avail
}

func (c *fixedFanOut) Connect(d Descriptor) []Connection {
	params := c.syn.Parameters()
	out := make([]Connection, 0, c.n*d.SrcCount())
	for s := d.SrcBegin; s < d.SrcEnd; s++ {
		candidates := rangeCandidates(d.TarBegin, d.TarEnd, s, !c.allowSelf && d.SamePopulation())
		for _, t := range sampleWithoutReplacement(c.rng, candidates, c.n) {
			out = append(out, Connection{Src: s, Tar: t, Params: params})
		}
	}
	return out
}

func (c *fixedFanOut) Group(Descriptor) (Group, bool) { return Group{}, false }

func (c *fixedFanOut) AllowSelfConnections() bool { return c.allowSelf }

func (c *fixedFanOut) AdditionalParameter() model.Real { return model.Real(c.n) }

func (c *fixedFanOut) Synapse() synapse.Model { return c.syn }

func rangeCandidates(begin, end, exclude model.NeuronIndex, excludeSelf bool) []model.NeuronIndex {
	out := make([]model.NeuronIndex, 0, int(end-begin))
	for i := begin; i < end; i++ {
		if excludeSelf && i == exclude {
			continue
		}
		out = append(out, i)
	}
	return out
}

// sampleWithoutReplacement draws n distinct indices via a partial
// Fisher-Yates shuffle of the candidate slice.
func sampleWithoutReplacement(rng *mrand.Rand, candidates []model.NeuronIndex, n int) []model.NeuronIndex {
	if n > len(candidates) {
		n = len(candidates)
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:n]
}
