package network

import (
	"fmt"

	"cypress/internal/model"
	"cypress/internal/neuron"
)

// View is a cheap value handle over the contiguous neuron range [Begin,End)
// of one population. Copying a view copies the handle, never the store.
type View struct {
	net   *Network
	pid   model.PopulationIndex
	begin model.NeuronIndex
	end   model.NeuronIndex
}

// Population is the whole-population handle.
type Population struct {
	View
}

// NeuronHandle is the single-neuron view.
type NeuronHandle struct {
	View
}

func (v View) view() View { return v }

func (v View) Network() *Network { return v.net }

func (v View) PID() model.PopulationIndex { return v.pid }

func (v View) Begin() model.NeuronIndex { return v.begin }

func (v View) End() model.NeuronIndex { return v.end }

func (v View) Size() int { return int(v.end - v.begin) }

// Data returns the population's backing store.
func (v View) Data() *PopulationData { return v.net.Data(v.pid) }

func (v View) Type() *neuron.Type { return v.Data().typ }

func (v View) Name() string { return v.Data().name }

// Range returns the sub-view [a,b) relative to this view. Bounds violations
// are programming errors and panic.
func (v View) Range(a, b model.NeuronIndex) View {
	if a < 0 || a >= b || v.begin+b > v.end {
		panic(fmt.Sprintf("network: sub-range [%d,%d) out of view of size %d", a, b, v.Size()))
	}
	return View{net: v.net, pid: v.pid, begin: v.begin + a, end: v.begin + b}
}

// Neuron returns the handle of the i-th neuron of this view.
func (v View) Neuron(i model.NeuronIndex) NeuronHandle {
	if i < 0 || v.begin+i >= v.end {
		panic(fmt.Sprintf("network: neuron %d out of view of size %d", i, v.Size()))
	}
	return NeuronHandle{View{net: v.net, pid: v.pid, begin: v.begin + i, end: v.begin + i + 1}}
}

// Neurons returns the neuron handles of this view in increasing index
// order. Ranging over the reversed slice iterates backwards.
func (v View) Neurons() []NeuronHandle {
	out := make([]NeuronHandle, 0, v.Size())
	for i := v.begin; i < v.end; i++ {
		out = append(out, NeuronHandle{View{net: v.net, pid: v.pid, begin: i, end: i + 1}})
	}
	return out
}

// Parameters returns the typed parameter facade over this view's range.
func (v View) Parameters() Parameters { return Parameters{view: v} }

// Signals returns the recording facade over this view's range.
func (v View) Signals() Signals { return Signals{view: v} }

// Equal reports whether two handles address the same range of the same
// network.
func (v View) Equal(o View) bool {
	return v.net == o.net && v.pid == o.pid && v.begin == o.begin && v.end == o.end
}

// Less orders handles lexicographically by (pid, begin, end), making them
// usable as map keys via their ordered triple.
func (v View) Less(o View) bool {
	if v.pid != o.pid {
		return v.pid < o.pid
	}
	if v.begin != o.begin {
		return v.begin < o.begin
	}
	return v.end < o.end
}

// NID returns the absolute neuron index of a single-neuron handle.
func (h NeuronHandle) NID() model.NeuronIndex { return h.begin }
