package backend

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"cypress/internal/model"
	"cypress/internal/network"
	"cypress/internal/neuron"
)

func TestParseGrammar(t *testing.T) {
	cases := []struct {
		id     string
		scheme string
		name   string
		setup  map[string]any
		ok     bool
	}{
		{"null", "null", "", nil, true},
		{"json.nest", "json", "nest", nil, true},
		{"json.nest={\"timestep\":0.1}", "json", "nest", map[string]any{"timestep": 0.1}, true},
		{"nest={\"threads\":4}", "nest", "", map[string]any{"threads": 4.0}, true},
		{"json.spikey.0", "json", "spikey.0", nil, true},
		{"json.nest={broken", "", "", nil, false},
		{"", "", "", nil, false},
		{"={\"a\":1}", "", "", nil, false},
	}
	for _, c := range cases {
		scheme, name, setup, err := Parse(c.id)
		if c.ok != (err == nil) {
			t.Fatalf("%q: unexpected error state: %v", c.id, err)
		}
		if !c.ok {
			continue
		}
		if scheme != c.scheme || name != c.name {
			t.Fatalf("%q: got (%q, %q), want (%q, %q)", c.id, scheme, name, c.scheme, c.name)
		}
		if !reflect.DeepEqual(setup, c.setup) {
			t.Fatalf("%q: unexpected setup: %#v", c.id, setup)
		}
	}
}

func TestNewUnknownScheme(t *testing.T) {
	if _, err := New("martian"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNativeSchemesUnavailable(t *testing.T) {
	for _, id := range []string{"nest", "pynn.nest"} {
		if _, err := New(id); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("%q: expected ErrUnavailable, got %v", id, err)
		}
	}
}

func TestNullBackendFillsFlaggedTraces(t *testing.T) {
	net := network.New()
	pop, err := net.AddPopulation(neuron.IfCondExp(), 3, nil, "p", "spikes", "v")
	if err != nil {
		t.Fatalf("add population: %v", err)
	}

	b, err := New("null")
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	if err := net.Run(context.Background(), b, 10); err != nil {
		t.Fatalf("run: %v", err)
	}

	spikes, err := pop.Neuron(0).Signals().Data(0)
	if err != nil {
		t.Fatalf("spikes: %v", err)
	}
	if spikes.Cols() != 1 {
		t.Fatalf("spike trains are n-by-1, got %d columns", spikes.Cols())
	}
	v, err := pop.Neuron(2).Signals().Data(1)
	if err != nil {
		t.Fatalf("v: %v", err)
	}
	if v.Cols() != 2 {
		t.Fatalf("analogue traces are n-by-2, got %d columns", v.Cols())
	}
	// Unflagged signals stay empty.
	if _, err := pop.Neuron(0).Signals().Data(2); !errors.Is(err, network.ErrNotRecorded) {
		t.Fatalf("expected ErrNotRecorded, got %v", err)
	}
	if net.Runtime().Duration != 10 {
		t.Fatalf("runtime not written: %+v", net.Runtime())
	}
}

// partialBackend writes one recording and then fails. Recordings that
// arrived before the failure stay on the network.
type partialBackend struct{}

func (partialBackend) Name() string { return "partial" }

func (partialBackend) Run(_ context.Context, net *network.Network, _ model.Real) error {
	data := net.Data(0)
	m, err := model.MatrixFromRows([][]model.Real{{5}})
	if err != nil {
		return err
	}
	if err := data.SetTrace(0, 0, m); err != nil {
		return err
	}
	return errors.New("hardware lost")
}

func TestPartialRecordingsSurviveFailure(t *testing.T) {
	net := network.New()
	pop, err := net.AddPopulation(neuron.IfCondExp(), 2, nil, "p", "spikes")
	if err != nil {
		t.Fatalf("add population: %v", err)
	}

	if err := net.Run(context.Background(), partialBackend{}, 1); err == nil {
		t.Fatal("backend failure must surface")
	}
	if _, err := pop.Neuron(0).Signals().Data(0); err != nil {
		t.Fatalf("partial recording lost: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	if err := Register("", nil); err == nil {
		t.Fatal("expected error for empty scheme")
	}
	if err := Register("json", newJSONTransport); err == nil {
		t.Fatal("expected error for duplicate scheme")
	}
}

func TestJSONTransportSetup(t *testing.T) {
	b, err := New("json.nest={\"timestep\":0.1,\"keep\":false,\"exec\":[\"simulate\",\"now\"]}")
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	jt := b.(*jsonTransport)
	if jt.simulator != "nest" || jt.Name() != "json.nest" {
		t.Fatalf("unexpected transport identity: %s", jt.Name())
	}
	if !reflect.DeepEqual(jt.execArgs, []string{"simulate", "now"}) {
		t.Fatalf("exec override lost: %v", jt.execArgs)
	}
	// Transport keys are stripped from the simulator setup.
	if !reflect.DeepEqual(jt.setup, map[string]any{"timestep": 0.1}) {
		t.Fatalf("unexpected simulator setup: %#v", jt.setup)
	}

	if _, err := New("json={\"exec\":[]}"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for empty exec, got %v", err)
	}
}

func TestJSONTransportMissingExecutor(t *testing.T) {
	net := network.New()
	if _, err := net.AddPopulation(neuron.IfCondExp(), 1, nil, "p"); err != nil {
		t.Fatalf("add population: %v", err)
	}

	b, err := New("json.nest={\"exec\":[\"/no/such/executor\"]}")
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	if err := net.Run(context.Background(), b, 1); !errors.Is(err, ErrExecution) {
		t.Fatalf("expected ErrExecution, got %v", err)
	}
}
