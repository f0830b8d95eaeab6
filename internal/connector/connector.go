// Package connector implements the symbolic connectivity algebra between two
// neuron ranges. A connector stays compact until a backend asks for the full
// synapse list via Connect; backends that understand the symbolic form read
// it through Group instead.
package connector

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	mrand "math/rand"

	"cypress/internal/model"
	"cypress/internal/synapse"
)

var ErrUnsupportedConnector = errors.New("unsupported connector")

// Connection is one materialized synapse. Params is the synapse parameter
// vector; slot 0 is the weight, slot 1 the delay in ms.
type Connection struct {
	Src    model.NeuronIndex
	Tar    model.NeuronIndex
	Params []model.Real
}

// Valid reports whether the synapse is realizable: non-zero weight and a
// non-negative delay.
func (c Connection) Valid() bool {
	return len(c.Params) >= 2 && c.Params[0] != 0 && c.Params[1] >= 0
}

// Group is the compact symbolic form of one projection, for backends that
// expand connectivity natively.
type Group struct {
	SrcPop   model.PopulationIndex
	TarPop   model.PopulationIndex
	SrcBegin model.NeuronIndex
	SrcEnd   model.NeuronIndex
	TarBegin model.NeuronIndex
	TarEnd   model.NeuronIndex

	ConnectorName       string
	Synapse             synapse.Model
	AdditionalParameter model.Real
	AllowSelf           bool
}

// Connector describes connectivity between the source and target range of a
// Descriptor. Connect materializes the full synapse list in the connector's
// documented order; Group returns the compact form where one exists.
type Connector interface {
	Name() string
	Valid(d Descriptor) bool
	Connect(d Descriptor) []Connection
	Group(d Descriptor) (Group, bool)
	AllowSelfConnections() bool
	AdditionalParameter() model.Real
	Synapse() synapse.Model
}

func groupFor(d Descriptor, c Connector) Group {
	return Group{
		SrcPop:              d.SrcPop,
		TarPop:              d.TarPop,
		SrcBegin:            d.SrcBegin,
		SrcEnd:              d.SrcEnd,
		TarBegin:            d.TarBegin,
		TarEnd:              d.TarEnd,
		ConnectorName:       c.Name(),
		Synapse:             c.Synapse(),
		AdditionalParameter: c.AdditionalParameter(),
		AllowSelf:           c.AllowSelfConnections(),
	}
}

func newRNG(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed))
}

// entropySeed draws a seed from the platform entropy source for the unseeded
// constructor variants.
func entropySeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
