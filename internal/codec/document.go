// Package codec implements the wire form of a network: a self-describing
// document carrying populations, connections, recordings and runtime
// metrics. The binary encoding is deterministic CBOR; JSON is the
// equivalent text rendering for debugging and fixtures.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"cypress/internal/model"
)

var ErrMalformedDocument = errors.New("malformed document")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em

	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// Document is the top-level wire object handed to an executor and returned
// by it. Exception is only set on reply documents of failed runs.
type Document struct {
	Simulator string         `json:"simulator" cbor:"simulator"`
	Setup     map[string]any `json:"setup,omitempty" cbor:"setup,omitempty"`
	Duration  model.Real     `json:"duration" cbor:"duration"`
	Network   NetworkDoc     `json:"network" cbor:"network"`
	Exception string         `json:"exception,omitempty" cbor:"exception,omitempty"`
}

type NetworkDoc struct {
	Populations []PopulationDoc      `json:"populations" cbor:"populations"`
	Connections []ConnectionDoc      `json:"connections" cbor:"connections"`
	Recordings  []RecordingDoc       `json:"recordings" cbor:"recordings"`
	Runtime     model.NetworkRuntime `json:"runtime" cbor:"runtime"`
}

type PopulationDoc struct {
	Type       string         `json:"type" cbor:"type"`
	Size       int            `json:"size" cbor:"size"`
	Label      string         `json:"label" cbor:"label"`
	Parameters ParameterShape `json:"parameters" cbor:"parameters"`
	Records    RecordShape    `json:"records" cbor:"records"`
}

type ConnectionDoc struct {
	PidSrc  model.PopulationIndex `json:"pid_src" cbor:"pid_src"`
	NidSrc0 model.NeuronIndex     `json:"nid_src0" cbor:"nid_src0"`
	NidSrc1 model.NeuronIndex     `json:"nid_src1" cbor:"nid_src1"`
	PidTar  model.PopulationIndex `json:"pid_tar" cbor:"pid_tar"`
	NidTar0 model.NeuronIndex     `json:"nid_tar0" cbor:"nid_tar0"`
	NidTar1 model.NeuronIndex     `json:"nid_tar1" cbor:"nid_tar1"`

	Label               string       `json:"label,omitempty" cbor:"label,omitempty"`
	ConnName            string       `json:"conn_name" cbor:"conn_name"`
	AllowSelf           bool         `json:"allow_self_connections" cbor:"allow_self_connections"`
	AdditionalParameter model.Real   `json:"additional_parameter" cbor:"additional_parameter"`
	SynName             string       `json:"syn_name" cbor:"syn_name"`
	Params              []model.Real `json:"params" cbor:"params"`

	// Connections carries the materialized synapse list for connectors
	// without a symbolic wire form, one flat row [src, tar, par...] each.
	Connections [][]model.Real `json:"connections,omitempty" cbor:"connections,omitempty"`
}

type RecordingDoc struct {
	Pid    model.PopulationIndex `json:"pid" cbor:"pid"`
	Signal string                `json:"signal" cbor:"signal"`
	Data   [][][]model.Real      `json:"data" cbor:"data"`
	Ids    []model.NeuronIndex   `json:"ids" cbor:"ids"`
}

// ParameterShape is the two-shape parameter encoding: a flat vector when
// the population is homogeneous, a vector per neuron otherwise.
type ParameterShape struct {
	Homogeneous bool
	Rows        [][]model.Real
}

func (p ParameterShape) MarshalJSON() ([]byte, error) {
	if p.Homogeneous {
		return json.Marshal(p.row0())
	}
	return json.Marshal(p.Rows)
}

func (p *ParameterShape) UnmarshalJSON(data []byte) error {
	var rows [][]model.Real
	if err := json.Unmarshal(data, &rows); err == nil && len(rows) > 0 {
		p.Homogeneous = false
		p.Rows = rows
		return nil
	}
	var flat []model.Real
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("%w: parameters are neither flat nor nested: %v", ErrMalformedDocument, err)
	}
	p.Homogeneous = true
	p.Rows = [][]model.Real{flat}
	return nil
}

func (p ParameterShape) MarshalCBOR() ([]byte, error) {
	if p.Homogeneous {
		return encMode.Marshal(p.row0())
	}
	return encMode.Marshal(p.Rows)
}

func (p *ParameterShape) UnmarshalCBOR(data []byte) error {
	var rows [][]model.Real
	if err := decMode.Unmarshal(data, &rows); err == nil && len(rows) > 0 {
		p.Homogeneous = false
		p.Rows = rows
		return nil
	}
	var flat []model.Real
	if err := decMode.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("%w: parameters are neither flat nor nested: %v", ErrMalformedDocument, err)
	}
	p.Homogeneous = true
	p.Rows = [][]model.Real{flat}
	return nil
}

func (p ParameterShape) row0() []model.Real {
	if len(p.Rows) == 0 || p.Rows[0] == nil {
		return []model.Real{}
	}
	return p.Rows[0]
}

// RecordShape is the two-shape record-flag encoding: a sorted list of
// recorded signal names when homogeneous, otherwise a per-signal flag
// vector for every signal with at least one flag set.
type RecordShape struct {
	Homogeneous bool
	Signals     []string
	Flags       map[string][]bool
}

func (r RecordShape) MarshalJSON() ([]byte, error) {
	if r.Homogeneous {
		return json.Marshal(r.signalList())
	}
	return json.Marshal(r.flagMap())
}

func (r *RecordShape) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		r.Homogeneous = true
		r.Signals = names
		return nil
	}
	var flags map[string][]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return fmt.Errorf("%w: records are neither a name list nor a flag map: %v", ErrMalformedDocument, err)
	}
	r.Homogeneous = false
	r.Flags = flags
	return nil
}

func (r RecordShape) MarshalCBOR() ([]byte, error) {
	if r.Homogeneous {
		return encMode.Marshal(r.signalList())
	}
	return encMode.Marshal(r.flagMap())
}

func (r *RecordShape) UnmarshalCBOR(data []byte) error {
	var names []string
	if err := decMode.Unmarshal(data, &names); err == nil {
		r.Homogeneous = true
		r.Signals = names
		return nil
	}
	var flags map[string][]bool
	if err := decMode.Unmarshal(data, &flags); err != nil {
		return fmt.Errorf("%w: records are neither a name list nor a flag map: %v", ErrMalformedDocument, err)
	}
	r.Homogeneous = false
	r.Flags = flags
	return nil
}

func (r RecordShape) signalList() []string {
	if r.Signals == nil {
		return []string{}
	}
	return r.Signals
}

func (r RecordShape) flagMap() map[string][]bool {
	if r.Flags == nil {
		return map[string][]bool{}
	}
	return r.Flags
}
