package network

import (
	"fmt"

	"cypress/internal/model"
)

// Parameters is the typed read/write facade over the parameter vectors of
// one handle's range. Reads enforce the homogeneity contract: a value can
// only be read where every neuron in the range agrees on it.
type Parameters struct {
	view View
}

// Get returns the value of parameter i, shared by every neuron in the
// range.
func (p Parameters) Get(i int) (model.Real, error) {
	return p.view.Data().ParameterValue(p.view.begin, p.view.end, i)
}

// GetByName resolves the parameter by name and reads it.
func (p Parameters) GetByName(name string) (model.Real, error) {
	i, ok := p.view.Type().ParameterIndex(name)
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q for type %s", name, p.view.Type().Name)
	}
	return p.Get(i)
}

// Set writes parameter i for every neuron in the range. Sub-range writes
// expand a homogeneous store; writes that restore uniformity collapse it
// back.
func (p Parameters) Set(i int, v model.Real) error {
	return p.view.Data().SetParameterValue(p.view.begin, p.view.end, i, v)
}

// SetByName resolves the parameter by name and writes it.
func (p Parameters) SetByName(name string, v model.Real) error {
	i, ok := p.view.Type().ParameterIndex(name)
	if !ok {
		return fmt.Errorf("unknown parameter %q for type %s", name, p.view.Type().Name)
	}
	return p.Set(i, v)
}

// Vector returns the full parameter vector shared by the range.
func (p Parameters) Vector() ([]model.Real, error) {
	row, err := p.view.Data().ReadParameters(p.view.begin, p.view.end)
	if err != nil {
		return nil, err
	}
	return append([]model.Real(nil), row...), nil
}

// SetVector overwrites the whole parameter vector of every neuron in the
// range.
func (p Parameters) SetVector(vec []model.Real) error {
	return p.view.Data().SetParameterVector(p.view.begin, p.view.end, vec)
}

// Homogeneous reports whether every neuron in the range shares one
// parameter vector.
func (p Parameters) Homogeneous() bool {
	_, err := p.view.Data().ReadParameters(p.view.begin, p.view.end)
	return err == nil
}

// Assign copies parameters from another handle's range. A single-vector
// source broadcasts onto the whole destination; otherwise source and
// destination sizes must match.
func (p Parameters) Assign(src Parameters) error {
	srcData := src.view.Data()
	if row, err := srcData.ReadParameters(src.view.begin, src.view.end); err == nil {
		return p.SetVector(row)
	}
	if src.view.Size() != p.view.Size() {
		return fmt.Errorf("%w: assigning %d neurons onto %d", ErrShapeMismatch, src.view.Size(), p.view.Size())
	}
	dstData := p.view.Data()
	for k := 0; k < p.view.Size(); k++ {
		row := srcData.paramRow(src.view.begin + model.NeuronIndex(k))
		dst := p.view.begin + model.NeuronIndex(k)
		if err := dstData.SetParameterVector(dst, dst+1, row); err != nil {
			return err
		}
	}
	return nil
}

// Signals is the recording facade over one handle's range: record flags and
// access to the captured traces.
type Signals struct {
	view View
}

// Record flags signal i for recording on every neuron in the range.
func (s Signals) Record(i int) error { return s.SetRecord(i, true) }

// RecordNamed resolves the signal by name and flags it.
func (s Signals) RecordNamed(name string) error {
	i, ok := s.view.Type().SignalIndex(name)
	if !ok {
		return fmt.Errorf("unknown signal %q for type %s", name, s.view.Type().Name)
	}
	return s.SetRecord(i, true)
}

// SetRecord sets or clears the record flag of signal i for the range, with
// the homogeneous store's expand/collapse rule.
func (s Signals) SetRecord(i int, on bool) error {
	return s.view.Data().SetRecordFlag(s.view.begin, s.view.end, i, on)
}

// IsRecording reports true only when every neuron in the range records
// signal i.
func (s Signals) IsRecording(i int) bool {
	return s.view.Data().RecordFlag(s.view.begin, s.view.end, i)
}

// Data returns the recorded matrix of signal i for the first neuron in the
// range. Requesting a signal that was never recorded fails.
func (s Signals) Data(i int) (*model.Matrix, error) {
	data := s.view.Data()
	if !data.RecordFlag(s.view.begin, s.view.begin+1, i) {
		return nil, fmt.Errorf("%w: signal %d", ErrNotRecorded, i)
	}
	m := data.Trace(s.view.begin, i)
	if m == nil {
		return nil, fmt.Errorf("%w: signal %d has no trace yet", ErrNotRecorded, i)
	}
	return m, nil
}

// DataByName resolves the signal by name and returns its trace.
func (s Signals) DataByName(name string) (*model.Matrix, error) {
	i, ok := s.view.Type().SignalIndex(name)
	if !ok {
		return nil, fmt.Errorf("unknown signal %q for type %s", name, s.view.Type().Name)
	}
	return s.Data(i)
}

// SetData stores the matrix as the trace of signal i for every neuron in
// the range. Backends use it to write results back.
func (s Signals) SetData(i int, m *model.Matrix) error {
	data := s.view.Data()
	for nid := s.view.begin; nid < s.view.end; nid++ {
		var own *model.Matrix
		if m != nil {
			own = m.Clone()
		}
		if err := data.SetTrace(nid, i, own); err != nil {
			return err
		}
	}
	return nil
}
