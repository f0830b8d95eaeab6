package cypress

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
)

func buildSimpleNetwork(t *testing.T) *Network {
	t.Helper()

	net := NewNetwork()
	src, err := net.AddPopulation(SpikeSourceArray(), 1, [][]Real{{20, 50}}, "source")
	if err != nil {
		t.Fatalf("add source: %v", err)
	}
	tar, err := net.AddPopulation(IfCondExp(), 3, nil, "target", "spikes")
	if err != nil {
		t.Fatalf("add target: %v", err)
	}
	if _, err := net.AddConnection(src, tar, AllToAll(0.5, 1, true), ""); err != nil {
		t.Fatalf("add connection: %v", err)
	}
	return net
}

func TestRoundTripSimpleNetwork(t *testing.T) {
	net := buildSimpleNetwork(t)

	first, err := Encode(net, "nest", 50)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(first)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second, err := Encode(decoded, "nest", 50)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("re-encoded document differs from the original encoding")
	}

	if decoded.PopulationCount() != net.PopulationCount() {
		t.Fatalf("population count changed: %d", decoded.PopulationCount())
	}
	for pid := PopulationIndex(0); int(pid) < net.PopulationCount(); pid++ {
		a, b := net.Data(pid), decoded.Data(pid)
		if a.Name() != b.Name() || a.Type() != b.Type() || a.Size() != b.Size() {
			t.Fatalf("population %d identity changed", pid)
		}
		if !reflect.DeepEqual(a.ParameterRows(), b.ParameterRows()) {
			t.Fatalf("population %d parameters changed", pid)
		}
		if !reflect.DeepEqual(a.RecordRows(), b.RecordRows()) {
			t.Fatalf("population %d record flags changed", pid)
		}
	}
	if len(decoded.Connections()) != len(net.Connections()) {
		t.Fatalf("connection count changed: %d", len(decoded.Connections()))
	}
	want, got := net.Connections()[0], decoded.Connections()[0]
	if want.SrcPop != got.SrcPop || want.TarPop != got.TarPop ||
		want.Conn.Name() != got.Conn.Name() {
		t.Fatalf("connection changed: %+v", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	net := buildSimpleNetwork(t)

	data, err := EncodeJSON(net, "nest", 50)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.PopulationCount() != 2 {
		t.Fatalf("population count: %d", decoded.PopulationCount())
	}
	if _, err := DecodeJSON([]byte("{")); !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestRunOnNullBackend(t *testing.T) {
	net := buildSimpleNetwork(t)

	if err := Run(context.Background(), net, "null", 50); err != nil {
		t.Fatalf("run: %v", err)
	}
	tar, err := net.Population("target")
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	if _, err := tar.Neuron(0).Signals().DataByName("spikes"); err != nil {
		t.Fatalf("spikes: %v", err)
	}
	if net.Runtime().Duration != 50 {
		t.Fatalf("runtime duration: %v", net.Runtime().Duration)
	}
}

func TestRunUnknownBackend(t *testing.T) {
	net := buildSimpleNetwork(t)
	if err := Run(context.Background(), net, "hardware.hicann", 1); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestBackendsListed(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Backends() {
		seen[s] = true
	}
	for _, want := range []string{"json", "null", "nest", "pynn"} {
		if !seen[want] {
			t.Fatalf("scheme %s missing: %v", want, Backends())
		}
	}
}

func TestFacadeConstruction(t *testing.T) {
	net := NewNetwork()
	pop, err := net.AddPopulation(IfCondExp(), 10, nil, "pool")
	if err != nil {
		t.Fatalf("add population: %v", err)
	}

	if err := pop.Parameters().SetByName("v_rest", -62); err != nil {
		t.Fatalf("set v_rest: %v", err)
	}
	v, err := pop.Parameters().GetByName("v_rest")
	if err != nil || v != -62 {
		t.Fatalf("v_rest: (%v, %v)", v, err)
	}

	typ, err := ResolveNeuronType("LIF")
	if err != nil || typ != IfCondExp() {
		t.Fatalf("alias resolve: %v", err)
	}

	syn, err := SynapseFromName("StaticSynapse", []Real{0.1, 2})
	if err != nil {
		t.Fatalf("synapse: %v", err)
	}
	if _, err := net.AddConnection(pop.Range(0, 5), pop.Range(5, 10), OneToOneSynapse(syn), "ladder"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if got := len(net.Connections()); got != 1 {
		t.Fatalf("connections: %d", got)
	}
}
