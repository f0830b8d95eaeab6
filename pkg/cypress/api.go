// Package cypress is the public surface of the library: network
// construction, connector and synapse factories, backend dispatch and
// document serialization. User programs import this package instead of the
// internal ones.
package cypress

import (
	"context"

	"cypress/internal/backend"
	"cypress/internal/codec"
	"cypress/internal/connector"
	"cypress/internal/model"
	"cypress/internal/network"
	"cypress/internal/neuron"
	"cypress/internal/synapse"
)

// Core types re-exported under their public names.
type (
	Real            = model.Real
	NeuronIndex     = model.NeuronIndex
	PopulationIndex = model.PopulationIndex
	Matrix          = model.Matrix
	NetworkRuntime  = model.NetworkRuntime

	Network      = network.Network
	View         = network.View
	Population   = network.Population
	NeuronHandle = network.NeuronHandle
	Parameters   = network.Parameters
	Signals      = network.Signals

	NeuronType = neuron.Type

	SynapseModel = synapse.Model

	Connector  = connector.Connector
	Connection = connector.Connection
	Descriptor = connector.Descriptor
	Group      = connector.Group
	Callback   = connector.Callback
	Predicate  = connector.Predicate

	Backend  = backend.Backend
	Document = codec.Document
)

// Sentinel errors of the underlying packages.
var (
	ErrShapeMismatch        = network.ErrShapeMismatch
	ErrHomogeneity          = network.ErrHomogeneity
	ErrInvalidConnection    = network.ErrInvalidConnection
	ErrNotRecorded          = network.ErrNotRecorded
	ErrNoSuchPopulation     = network.ErrNoSuchPopulation
	ErrUnknownType          = neuron.ErrUnknownType
	ErrUnknownModel         = synapse.ErrUnknownModel
	ErrUnsupportedConnector = connector.ErrUnsupportedConnector
	ErrUnavailable          = backend.ErrUnavailable
	ErrExecution            = backend.ErrExecution
	ErrMalformedDocument    = codec.ErrMalformedDocument
)

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return network.New()
}

// Neuron type accessors.
func SpikeSourceArray() *NeuronType { return neuron.SpikeSourceArray() }

func SpikeSourcePoisson() *NeuronType { return neuron.SpikeSourcePoisson() }

func SpikeSourceConstFreq() *NeuronType { return neuron.SpikeSourceConstFreq() }

func SpikeSourceConstInterval() *NeuronType { return neuron.SpikeSourceConstInterval() }

func IfCondExp() *NeuronType { return neuron.IfCondExp() }

func IfFacetsHardware1() *NeuronType { return neuron.IfFacetsHardware1() }

func EifCondExpIsfaIsta() *NeuronType { return neuron.EifCondExpIsfaIsta() }

func IfCurrExp() *NeuronType { return neuron.IfCurrExp() }

// ResolveNeuronType resolves a canonical neuron type name or alias.
func ResolveNeuronType(name string) (*NeuronType, error) {
	return neuron.Resolve(name)
}

// Synapse model constructors.
func StaticSynapse(weight, delay Real) SynapseModel { return synapse.Static(weight, delay) }

func SpikePairRuleAdditive() SynapseModel { return synapse.SpikePairRuleAdditive() }

func SpikePairRuleMultiplicative() SynapseModel { return synapse.SpikePairRuleMultiplicative() }

func TsodyksMarkramMechanism() SynapseModel { return synapse.TsodyksMarkramMechanism() }

func SynapseFromName(name string, params []Real) (SynapseModel, error) {
	return synapse.FromName(name, params)
}

// Connector factories, deterministic.
func AllToAll(weight, delay Real, allowSelf bool) Connector {
	return connector.AllToAll(weight, delay, allowSelf)
}

func AllToAllSynapse(syn SynapseModel, allowSelf bool) Connector {
	return connector.AllToAllSynapse(syn, allowSelf)
}

func OneToOne(weight, delay Real) Connector {
	return connector.OneToOne(weight, delay)
}

func OneToOneSynapse(syn SynapseModel) Connector {
	return connector.OneToOneSynapse(syn)
}

func FromList(entries []Connection) Connector {
	return connector.FromList(entries)
}

func Functor(f Callback) Connector {
	return connector.Functor(f)
}

func UniformFunctor(pred Predicate, weight, delay Real) Connector {
	return connector.UniformFunctor(pred, weight, delay)
}

// Connector factories, randomized. The Seed variants are deterministic for
// a fixed seed; the others draw their seed from the system entropy pool.
func FixedProbability(inner Connector, p Real) Connector {
	return connector.FixedProbability(inner, p)
}

func FixedProbabilitySeed(inner Connector, p Real, seed int64) Connector {
	return connector.FixedProbabilitySeed(inner, p, seed)
}

func Random(weight, delay, p Real, allowSelf bool) Connector {
	return connector.Random(weight, delay, p, allowSelf)
}

func RandomSeed(weight, delay, p Real, allowSelf bool, seed int64) Connector {
	return connector.RandomSeed(weight, delay, p, allowSelf, seed)
}

func FixedFanIn(n int, weight, delay Real, allowSelf bool) Connector {
	return connector.FixedFanIn(n, weight, delay, allowSelf)
}

func FixedFanInSeed(n int, weight, delay Real, allowSelf bool, seed int64) Connector {
	return connector.FixedFanInSeed(n, weight, delay, allowSelf, seed)
}

func FixedFanOut(n int, weight, delay Real, allowSelf bool) Connector {
	return connector.FixedFanOut(n, weight, delay, allowSelf)
}

func FixedFanOutSeed(n int, weight, delay Real, allowSelf bool, seed int64) Connector {
	return connector.FixedFanOutSeed(n, weight, delay, allowSelf, seed)
}

// Run resolves a backend identifier like "null" or
// "json.nest={\"timestep\":0.1}" and simulates the network on it for
// duration ms. A duration of zero falls back to the network's intrinsic
// duration.
func Run(ctx context.Context, net *Network, backendID string, duration Real) error {
	b, err := backend.New(backendID)
	if err != nil {
		return err
	}
	return net.Run(ctx, b, duration)
}

// Backends returns the sorted registered backend schemes.
func Backends() []string {
	return backend.List()
}

// Encode serializes a network into a CBOR document.
func Encode(net *Network, simulator string, duration Real) ([]byte, error) {
	doc, err := codec.BuildDocument(net, simulator, nil, duration)
	if err != nil {
		return nil, err
	}
	return codec.Encode(doc)
}

// EncodeJSON serializes a network into a JSON document.
func EncodeJSON(net *Network, simulator string, duration Real) ([]byte, error) {
	doc, err := codec.BuildDocument(net, simulator, nil, duration)
	if err != nil {
		return nil, err
	}
	return codec.EncodeJSON(doc)
}

// Decode rebuilds a network from a CBOR document.
func Decode(data []byte) (*Network, error) {
	doc, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return codec.BuildNetwork(doc)
}

// DecodeJSON rebuilds a network from a JSON document.
func DecodeJSON(data []byte) (*Network, error) {
	doc, err := codec.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return codec.BuildNetwork(doc)
}
