package model

// Real is the numeric type carried by parameters, synapse values and traces.
// Single precision is sufficient on the wire; doubles are used internally.
type Real = float64

// NeuronIndex addresses one neuron within a population.
type NeuronIndex = int32

// PopulationIndex addresses one population within a network.
type PopulationIndex = int32

// NetworkRuntime holds the wall-clock metrics a backend reports after a run.
// Total, Sim, Initialize and Finalize are seconds; Duration is the simulated
// time in milliseconds.
type NetworkRuntime struct {
	Total      float64 `json:"total" cbor:"total"`
	Sim        float64 `json:"sim" cbor:"sim"`
	Initialize float64 `json:"initialize" cbor:"initialize"`
	Finalize   float64 `json:"finalize" cbor:"finalize"`
	Duration   float64 `json:"duration" cbor:"duration"`
}
