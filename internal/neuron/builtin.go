package neuron

import "cypress/internal/model"

// Builtin neuron types. Parameter schemas are positional; values use the
// units documented per parameter (nF, ms, mV, µS, nA, Hz). Defaults follow
// the standard models of the simulators these types target.

// The spike source array stores its spike times (ms) as the parameter
// vector, one slot per spike. Times should be monotonic but are not
// enforced to be.
var spikeSourceArray = &Type{
	Name:               "SpikeSourceArray",
	Parameters:         []string{"spike_times"},
	ParameterUnits:     []string{"ms"},
	Defaults:           []model.Real{},
	Signals:            []string{"spikes"},
	SignalUnits:        []string{"ms"},
	SpikeSource:        true,
	VariableParameters: true,
}

var spikeSourcePoisson = &Type{
	Name:           "SpikeSourcePoisson",
	Parameters:     []string{"rate", "start", "duration", "seed"},
	ParameterUnits: []string{"Hz", "ms", "ms", ""},
	Defaults:       []model.Real{0, 0, 100000, 0},
	Signals:        []string{"spikes"},
	SignalUnits:    []string{"ms"},
	SpikeSource:    true,
}

var spikeSourceConstFreq = &Type{
	Name:           "SpikeSourceConstFreq",
	Parameters:     []string{"rate", "start", "duration", "sigma"},
	ParameterUnits: []string{"Hz", "ms", "ms", "ms"},
	Defaults:       []model.Real{0, 0, 100000, 0},
	Signals:        []string{"spikes"},
	SignalUnits:    []string{"ms"},
	SpikeSource:    true,
}

var spikeSourceConstInterval = &Type{
	Name:           "SpikeSourceConstInterval",
	Parameters:     []string{"interval", "start", "duration", "sigma"},
	ParameterUnits: []string{"ms", "ms", "ms", "ms"},
	Defaults:       []model.Real{100, 0, 100000, 0},
	Signals:        []string{"spikes"},
	SignalUnits:    []string{"ms"},
	SpikeSource:    true,
}

var ifCondExp = &Type{
	Name: "IfCondExp",
	Parameters: []string{
		"cm", "tau_m", "tau_syn_E", "tau_syn_I", "tau_refrac",
		"v_rest", "v_thresh", "v_reset", "e_rev_E", "e_rev_I", "i_offset",
	},
	ParameterUnits: []string{
		"nF", "ms", "ms", "ms", "ms",
		"mV", "mV", "mV", "mV", "mV", "nA",
	},
	Defaults: []model.Real{
		1.0, 20.0, 5.0, 5.0, 0.1,
		-65.0, -50.0, -65.0, 0.0, -70.0, 0.0,
	},
	Signals:          []string{"spikes", "v", "gsyn_exc", "gsyn_inh"},
	SignalUnits:      []string{"ms", "mV", "uS", "uS"},
	ConductanceBased: true,
}

var ifFacetsHardware1 = &Type{
	Name: "IfFacetsHardware1",
	Parameters: []string{
		"g_leak", "tau_refrac", "v_rest", "v_thresh", "v_reset", "e_rev_I",
	},
	ParameterUnits: []string{"µS", "ms", "mV", "mV", "mV", "mV"},
	Defaults: []model.Real{
		0.02, 1.0, -75.0, -55.0, -80.0, -80.0,
	},
	Signals:          []string{"spikes", "v"},
	SignalUnits:      []string{"ms", "mV"},
	ConductanceBased: true,
}

var eifCondExpIsfaIsta = &Type{
	Name: "EifCondExpIsfaIsta",
	Parameters: []string{
		"cm", "tau_m", "tau_syn_E", "tau_syn_I", "tau_refrac", "tau_w",
		"v_rest", "v_thresh", "v_reset", "e_rev_E", "e_rev_I", "i_offset",
		"a", "b", "delta_T",
	},
	ParameterUnits: []string{
		"nF", "ms", "ms", "ms", "ms", "ms",
		"mV", "mV", "mV", "mV", "mV", "nA",
		"nS", "nA", "mV",
	},
	Defaults: []model.Real{
		0.281, 9.3667, 5.0, 5.0, 0.1, 144.0,
		-70.6, -50.4, -70.6, 0.0, -80.0, 0.0,
		4.0, 0.0805, 2.0,
	},
	Signals:          []string{"spikes", "v", "gsyn_exc", "gsyn_inh"},
	SignalUnits:      []string{"ms", "mV", "uS", "uS"},
	ConductanceBased: true,
}

// The trailing slot keeps the vector length aligned with the conductance
// variant so hardware backends can reuse one layout.
var ifCurrExp = &Type{
	Name: "IfCurrExp",
	Parameters: []string{
		"cm", "tau_m", "tau_syn_E", "tau_syn_I", "tau_refrac",
		"v_rest", "v_thresh", "v_reset", "i_offset", "reserved",
	},
	ParameterUnits: []string{
		"nF", "ms", "ms", "ms", "ms",
		"mV", "mV", "mV", "nA", "",
	},
	Defaults: []model.Real{
		1.0, 20.0, 5.0, 5.0, 0.1,
		-65.0, -50.0, -65.0, 0.0, 0.0,
	},
	Signals:     []string{"spikes", "v"},
	SignalUnits: []string{"ms", "mV"},
}

func SpikeSourceArray() *Type { return spikeSourceArray }

func SpikeSourcePoisson() *Type { return spikeSourcePoisson }

func SpikeSourceConstFreq() *Type { return spikeSourceConstFreq }

func SpikeSourceConstInterval() *Type { return spikeSourceConstInterval }

func IfCondExp() *Type { return ifCondExp }

func IfFacetsHardware1() *Type { return ifFacetsHardware1 }

func EifCondExpIsfaIsta() *Type { return eifCondExpIsfaIsta }

func IfCurrExp() *Type { return ifCurrExp }

func init() {
	for _, t := range []*Type{
		spikeSourceArray, spikeSourcePoisson, spikeSourceConstFreq,
		spikeSourceConstInterval, ifCondExp, ifFacetsHardware1,
		eifCondExpIsfaIsta, ifCurrExp,
	} {
		if err := Register(t); err != nil {
			panic(err)
		}
	}
	if err := RegisterAlias("LIF", "IfCondExp"); err != nil {
		panic(err)
	}
	if err := RegisterAlias("AdEx", "EifCondExpIsfaIsta"); err != nil {
		panic(err)
	}
}
