package connector

import "cypress/internal/model"

// Descriptor is the immutable record of one projection: a source range, a
// target range and the connector joining them. Ranges are half-open neuron
// index intervals within their population.
type Descriptor struct {
	SrcPop   model.PopulationIndex
	TarPop   model.PopulationIndex
	SrcBegin model.NeuronIndex
	SrcEnd   model.NeuronIndex
	TarBegin model.NeuronIndex
	TarEnd   model.NeuronIndex

	Label string
	Conn  Connector
}

func (d Descriptor) SrcCount() int { return int(d.SrcEnd - d.SrcBegin) }

func (d Descriptor) TarCount() int { return int(d.TarEnd - d.TarBegin) }

// RangesValid reports whether both ranges are non-empty and non-negative.
func (d Descriptor) RangesValid() bool {
	return d.SrcBegin >= 0 && d.SrcBegin < d.SrcEnd &&
		d.TarBegin >= 0 && d.TarBegin < d.TarEnd
}

// Valid reports whether the descriptor carries a connector that accepts its
// ranges.
func (d Descriptor) Valid() bool {
	return d.RangesValid() && d.Conn != nil && d.Conn.Valid(d)
}

// SamePopulation reports whether source and target address the same
// population, the case where self-connections can arise.
func (d Descriptor) SamePopulation() bool { return d.SrcPop == d.TarPop }
