package connector

import (
	"fmt"

	"cypress/internal/model"
	"cypress/internal/synapse"
)

// FromGroup reconstructs a symbolic connector from its wire form: name,
// synapse template, additional parameter and self-connection flag. Random
// connectors come back freshly seeded from entropy; the wire does not carry
// PRNG state.
func FromGroup(name string, syn synapse.Model, additional model.Real, allowSelf bool) (Connector, error) {
	switch name {
	case "AllToAllConnector":
		return AllToAllSynapse(syn, allowSelf), nil
	case "OneToOneConnector":
		return OneToOneSynapse(syn), nil
	case "RandomConnector":
		return RandomSynapse(syn, additional, allowSelf), nil
	case "FixedProbabilityConnector":
		return FixedProbability(AllToAllSynapse(syn, allowSelf), additional), nil
	case "FixedFanInConnector":
		return FixedFanInSynapseSeed(int(additional), syn, allowSelf, entropySeed()), nil
	case "FixedFanOutConnector":
		return FixedFanOutSynapseSeed(int(additional), syn, allowSelf, entropySeed()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConnector, name)
	}
}

// FromConnections reconstructs a connector from a materialized synapse list,
// keeping the wire name, additional parameter and self-connection flag of
// the connector that produced the list so the projection re-encodes
// unchanged.
func FromConnections(name string, syn synapse.Model, additional model.Real, allowSelf bool, entries []Connection) (Connector, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnsupportedConnector)
	}
	if syn == nil {
		syn = synapse.StaticDefault()
	}
	return &fromList{
		name:       name,
		syn:        syn,
		entries:    entries,
		additional: additional,
		allowSelf:  allowSelf,
		decoded:    true,
	}, nil
}
