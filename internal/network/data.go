package network

import (
	"errors"
	"fmt"

	"cypress/internal/model"
	"cypress/internal/neuron"
)

var (
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrHomogeneity       = errors.New("range is not homogeneous")
	ErrInvalidConnection = errors.New("invalid connection")
	ErrNotRecorded       = errors.New("signal not recorded")
	ErrNoSuchPopulation  = errors.New("no such population")
)

// PopulationData is the backing store of one population: its per-neuron
// parameter vectors, record flags and recorded traces. Each of the three
// outer sequences has either length one (homogeneous, shared by all neurons)
// or length size (one entry per neuron).
type PopulationData struct {
	size int
	typ  *neuron.Type
	name string

	params [][]model.Real
	record [][]bool
	traces [][]*model.Matrix
}

func newPopulationData(typ *neuron.Type, size int, name string) *PopulationData {
	return &PopulationData{
		size:   size,
		typ:    typ,
		name:   name,
		params: [][]model.Real{typ.DefaultParameters()},
		record: [][]bool{make([]bool, typ.SignalCount())},
		traces: [][]*model.Matrix{make([]*model.Matrix, typ.SignalCount())},
	}
}

func (p *PopulationData) Size() int { return p.size }

func (p *PopulationData) Type() *neuron.Type { return p.typ }

func (p *PopulationData) Name() string { return p.name }

func (p *PopulationData) SetName(name string) { p.name = name }

func (p *PopulationData) HomogeneousParameters() bool { return len(p.params) == 1 }

func (p *PopulationData) HomogeneousRecord() bool { return len(p.record) == 1 }

func (p *PopulationData) HomogeneousData() bool { return len(p.traces) == 1 }

// ParameterRows exposes the raw parameter store: one row when homogeneous,
// one row per neuron otherwise. The rows alias the store.
func (p *PopulationData) ParameterRows() [][]model.Real { return p.params }

// RecordRows exposes the raw record-flag store with the same shape rule.
func (p *PopulationData) RecordRows() [][]bool { return p.record }

func (p *PopulationData) checkRange(a, b model.NeuronIndex) {
	if a < 0 || a >= b || int(b) > p.size {
		panic(fmt.Sprintf("network: neuron range [%d,%d) out of bounds for population of size %d", a, b, p.size))
	}
}

func (p *PopulationData) paramRow(nid model.NeuronIndex) []model.Real {
	if len(p.params) == 1 {
		return p.params[0]
	}
	return p.params[nid]
}

func (p *PopulationData) recordRow(nid model.NeuronIndex) []bool {
	if len(p.record) == 1 {
		return p.record[0]
	}
	return p.record[nid]
}

// ReadParameters returns the parameter vector shared by every neuron in
// [a,b). It fails when the range spans differing vectors.
func (p *PopulationData) ReadParameters(a, b model.NeuronIndex) ([]model.Real, error) {
	p.checkRange(a, b)
	if len(p.params) == 1 {
		return p.params[0], nil
	}
	for i := a + 1; i < b; i++ {
		if !realsEqual(p.params[a], p.params[i]) {
			return nil, fmt.Errorf("%w: parameters differ inside [%d,%d)", ErrHomogeneity, a, b)
		}
	}
	return p.params[a], nil
}

// ParameterValue returns the value of parameter i shared by every neuron in
// [a,b), failing when the range spans differing values at that index.
func (p *PopulationData) ParameterValue(a, b model.NeuronIndex, i int) (model.Real, error) {
	p.checkRange(a, b)
	p.checkParameterIndex(i)
	if len(p.params) == 1 {
		return p.params[0][i], nil
	}
	v := p.params[a][i]
	for k := a + 1; k < b; k++ {
		if p.params[k][i] != v {
			return 0, fmt.Errorf("%w: parameter %d differs inside [%d,%d)", ErrHomogeneity, i, a, b)
		}
	}
	return v, nil
}

// SetParameterValue writes parameter i for every neuron in [a,b), expanding
// a homogeneous store for sub-range writes and collapsing it back when the
// write restores uniformity.
func (p *PopulationData) SetParameterValue(a, b model.NeuronIndex, i int, v model.Real) error {
	p.checkRange(a, b)
	p.checkParameterIndex(i)
	if len(p.params) == 1 && p.fullRange(a, b) {
		p.params[0][i] = v
		return nil
	}
	p.expandParameters()
	for k := a; k < b; k++ {
		p.params[k][i] = v
	}
	p.collapseParameters()
	return nil
}

// SetParameterVector overwrites the whole parameter vector of every neuron
// in [a,b).
func (p *PopulationData) SetParameterVector(a, b model.NeuronIndex, vec []model.Real) error {
	p.checkRange(a, b)
	if !p.typ.ValidParameterCount(len(vec)) {
		return fmt.Errorf("%w: %d parameters for type %s (want %d)", ErrShapeMismatch, len(vec), p.typ.Name, p.typ.ParameterCount())
	}
	if p.fullRange(a, b) {
		p.params = [][]model.Real{append([]model.Real(nil), vec...)}
		return nil
	}
	p.expandParameters()
	for k := a; k < b; k++ {
		p.params[k] = append([]model.Real(nil), vec...)
	}
	p.collapseParameters()
	return nil
}

// SetParameterRows replaces the parameter store wholesale. The decode path
// uses it; the wire shape is preserved as-is, without re-homogenizing.
func (p *PopulationData) SetParameterRows(rows [][]model.Real) error {
	if len(rows) != 1 && len(rows) != p.size {
		return fmt.Errorf("%w: %d parameter rows for population of size %d", ErrShapeMismatch, len(rows), p.size)
	}
	fresh := make([][]model.Real, len(rows))
	for i, row := range rows {
		if !p.typ.ValidParameterCount(len(row)) {
			return fmt.Errorf("%w: %d parameters for type %s (want %d)", ErrShapeMismatch, len(row), p.typ.Name, p.typ.ParameterCount())
		}
		fresh[i] = append([]model.Real(nil), row...)
	}
	p.params = fresh
	return nil
}

// RecordFlag reports whether every neuron in [a,b) records signal i; any
// unset flag makes it false.
func (p *PopulationData) RecordFlag(a, b model.NeuronIndex, i int) bool {
	p.checkRange(a, b)
	p.checkSignalIndex(i)
	if len(p.record) == 1 {
		return p.record[0][i]
	}
	for k := a; k < b; k++ {
		if !p.record[k][i] {
			return false
		}
	}
	return true
}

// SetRecordFlag sets the record flag of signal i for every neuron in [a,b),
// with the same expand/collapse rule as parameter writes.
func (p *PopulationData) SetRecordFlag(a, b model.NeuronIndex, i int, on bool) error {
	p.checkRange(a, b)
	p.checkSignalIndex(i)
	if len(p.record) == 1 && p.fullRange(a, b) {
		p.record[0][i] = on
		return nil
	}
	p.expandRecord()
	for k := a; k < b; k++ {
		p.record[k][i] = on
	}
	p.collapseRecord()
	return nil
}

// SetRecordRows replaces the record store wholesale (decode path).
func (p *PopulationData) SetRecordRows(rows [][]bool) error {
	if len(rows) != 1 && len(rows) != p.size {
		return fmt.Errorf("%w: %d record rows for population of size %d", ErrShapeMismatch, len(rows), p.size)
	}
	fresh := make([][]bool, len(rows))
	for i, row := range rows {
		if len(row) != p.typ.SignalCount() {
			return fmt.Errorf("%w: %d record flags for type %s (want %d)", ErrShapeMismatch, len(row), p.typ.Name, p.typ.SignalCount())
		}
		fresh[i] = append([]bool(nil), row...)
	}
	p.record = fresh
	return nil
}

// Trace returns the recorded matrix of signal i for one neuron, or nil when
// nothing was recorded.
func (p *PopulationData) Trace(nid model.NeuronIndex, i int) *model.Matrix {
	p.checkRange(nid, nid+1)
	p.checkSignalIndex(i)
	if len(p.traces) == 1 {
		return p.traces[0][i]
	}
	return p.traces[nid][i]
}

// SetTrace stores the recorded matrix of signal i for one neuron and sets
// the matching record flag, keeping trace slots consistent with the flags.
func (p *PopulationData) SetTrace(nid model.NeuronIndex, i int, m *model.Matrix) error {
	p.checkRange(nid, nid+1)
	p.checkSignalIndex(i)
	if len(p.traces) == 1 && p.size > 1 {
		expanded := make([][]*model.Matrix, p.size)
		for k := range expanded {
			row := make([]*model.Matrix, len(p.traces[0]))
			for s, t := range p.traces[0] {
				if t != nil {
					row[s] = t.Clone()
				}
			}
			expanded[k] = row
		}
		p.traces = expanded
	}
	row := p.traces[0]
	if len(p.traces) > 1 {
		row = p.traces[nid]
	}
	row[i] = m
	if m != nil {
		return p.SetRecordFlag(nid, nid+1, i, true)
	}
	return nil
}

// RecordedNeurons lists the neurons that carry a trace for signal i, in
// increasing order.
func (p *PopulationData) RecordedNeurons(i int) []model.NeuronIndex {
	p.checkSignalIndex(i)
	var out []model.NeuronIndex
	for nid := model.NeuronIndex(0); int(nid) < p.size; nid++ {
		if p.Trace(nid, i) != nil {
			out = append(out, nid)
		}
	}
	return out
}

// Clone returns a deep, independent copy of the store.
func (p *PopulationData) Clone() *PopulationData {
	c := &PopulationData{
		size:   p.size,
		typ:    p.typ,
		name:   p.name,
		params: make([][]model.Real, len(p.params)),
		record: make([][]bool, len(p.record)),
		traces: make([][]*model.Matrix, len(p.traces)),
	}
	for i, row := range p.params {
		c.params[i] = append([]model.Real(nil), row...)
	}
	for i, row := range p.record {
		c.record[i] = append([]bool(nil), row...)
	}
	for i, row := range p.traces {
		fresh := make([]*model.Matrix, len(row))
		for s, t := range row {
			if t != nil {
				fresh[s] = t.Clone()
			}
		}
		c.traces[i] = fresh
	}
	return c
}

func (p *PopulationData) fullRange(a, b model.NeuronIndex) bool {
	return a == 0 && int(b) == p.size
}

func (p *PopulationData) expandParameters() {
	if len(p.params) != 1 || p.size <= 1 {
		return
	}
	rows := make([][]model.Real, p.size)
	for i := range rows {
		rows[i] = append([]model.Real(nil), p.params[0]...)
	}
	p.params = rows
}

func (p *PopulationData) collapseParameters() {
	if len(p.params) <= 1 {
		return
	}
	for i := 1; i < len(p.params); i++ {
		if !realsEqual(p.params[0], p.params[i]) {
			return
		}
	}
	p.params = p.params[:1]
}

func (p *PopulationData) expandRecord() {
	if len(p.record) != 1 || p.size <= 1 {
		return
	}
	rows := make([][]bool, p.size)
	for i := range rows {
		rows[i] = append([]bool(nil), p.record[0]...)
	}
	p.record = rows
}

func (p *PopulationData) collapseRecord() {
	if len(p.record) <= 1 {
		return
	}
	for i := 1; i < len(p.record); i++ {
		if !boolsEqual(p.record[0], p.record[i]) {
			return
		}
	}
	p.record = p.record[:1]
}

func (p *PopulationData) checkParameterIndex(i int) {
	if p.typ.VariableParameters {
		if i < 0 || i >= len(p.params[0]) {
			panic(fmt.Sprintf("network: parameter index %d out of range for type %s", i, p.typ.Name))
		}
		return
	}
	if i < 0 || i >= p.typ.ParameterCount() {
		panic(fmt.Sprintf("network: parameter index %d out of range for type %s", i, p.typ.Name))
	}
}

func (p *PopulationData) checkSignalIndex(i int) {
	if i < 0 || i >= p.typ.SignalCount() {
		panic(fmt.Sprintf("network: signal index %d out of range for type %s", i, p.typ.Name))
	}
}

func realsEqual(a, b []model.Real) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}
