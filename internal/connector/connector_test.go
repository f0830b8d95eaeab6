package connector

import (
	"reflect"
	"testing"

	"cypress/internal/model"
	"cypress/internal/synapse"
)

func descr(srcPop, tarPop model.PopulationIndex, sa, sb, ta, tb model.NeuronIndex, c Connector) Descriptor {
	return Descriptor{
		SrcPop: srcPop, TarPop: tarPop,
		SrcBegin: sa, SrcEnd: sb,
		TarBegin: ta, TarEnd: tb,
		Conn: c,
	}
}

func TestAllToAllOrdering(t *testing.T) {
	c := AllToAll(0.1, 1, true)
	d := descr(0, 1, 0, 2, 0, 3, c)
	conns := c.Connect(d)
	var pairs [][2]model.NeuronIndex
	for _, conn := range conns {
		pairs = append(pairs, [2]model.NeuronIndex{conn.Src, conn.Tar})
	}
	want := [][2]model.NeuronIndex{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Fatalf("unexpected source-major order: %v", pairs)
	}
	for _, conn := range conns {
		if conn.Params[0] != 0.1 || conn.Params[1] != 1 {
			t.Fatalf("unexpected synapse parameters: %v", conn.Params)
		}
	}
}

func TestAllToAllSelfExclusion(t *testing.T) {
	c := AllToAll(0.1, 1, false)
	d := descr(0, 0, 0, 10, 0, 10, c)
	conns := c.Connect(d)
	if len(conns) != 90 {
		t.Fatalf("expected 90 connections, got %d", len(conns))
	}
	for _, conn := range conns {
		if conn.Src == conn.Tar {
			t.Fatalf("self connection survived: %d", conn.Src)
		}
	}
}

func TestAllToAllSelfAcrossPopulations(t *testing.T) {
	// Self-exclusion only applies within one population.
	c := AllToAll(0.1, 1, false)
	d := descr(0, 1, 0, 10, 0, 10, c)
	if got := len(c.Connect(d)); got != 100 {
		t.Fatalf("expected 100 connections across populations, got %d", got)
	}
}

func TestOneToOne(t *testing.T) {
	c := OneToOne(0.2, 2)
	d := descr(0, 1, 2, 5, 1, 4, c)
	if !c.Valid(d) {
		t.Fatal("equal ranges must be valid")
	}
	conns := c.Connect(d)
	want := []Connection{
		{Src: 2, Tar: 1, Params: []model.Real{0.2, 2}},
		{Src: 3, Tar: 2, Params: []model.Real{0.2, 2}},
		{Src: 4, Tar: 3, Params: []model.Real{0.2, 2}},
	}
	if !reflect.DeepEqual(conns, want) {
		t.Fatalf("unexpected connections: %v", conns)
	}
}

func TestOneToOneSizeMismatch(t *testing.T) {
	c := OneToOne(0.2, 2)
	d := descr(0, 1, 0, 10, 0, 11, c)
	if c.Valid(d) {
		t.Fatal("size mismatch must be invalid")
	}
}

func TestFromListClipping(t *testing.T) {
	entries := []Connection{
		{Src: 0, Tar: 1, Params: []model.Real{1, 1}},
		{Src: 10, Tar: 8, Params: []model.Real{1, 1}},
		{Src: 11, Tar: 3, Params: []model.Real{1, 1}},
		{Src: 12, Tar: 3, Params: []model.Real{1, 1}},
		{Src: 14, Tar: 3, Params: []model.Real{1, 1}},
		{Src: 12, Tar: 2, Params: []model.Real{0, 1}},
	}
	c := FromList(entries)
	d := descr(0, 1, 0, 16, 0, 4, c)
	conns := c.Connect(d)
	var pairs [][2]model.NeuronIndex
	for _, conn := range conns {
		pairs = append(pairs, [2]model.NeuronIndex{conn.Src, conn.Tar})
	}
	want := [][2]model.NeuronIndex{{0, 1}, {11, 3}, {12, 3}, {14, 3}}
	if !reflect.DeepEqual(pairs, want) {
		t.Fatalf("unexpected clipped list: %v", pairs)
	}
}

func TestFromListDropsNegativeDelay(t *testing.T) {
	c := FromList([]Connection{
		{Src: 0, Tar: 0, Params: []model.Real{1, -1}},
		{Src: 1, Tar: 1, Params: []model.Real{1, 0}},
	})
	d := descr(0, 1, 0, 4, 0, 4, c)
	conns := c.Connect(d)
	if len(conns) != 1 || conns[0].Src != 1 {
		t.Fatalf("expected only the zero-delay entry, got %v", conns)
	}
}

func TestFromListEmptyInvalid(t *testing.T) {
	c := FromList(nil)
	if c.Valid(descr(0, 1, 0, 4, 0, 4, c)) {
		t.Fatal("empty list must be invalid")
	}
}

func TestFunctor(t *testing.T) {
	c := Functor(func(src, tar model.NeuronIndex) []model.Real {
		if src == tar {
			return nil
		}
		return []model.Real{0.5, model.Real(src + tar)}
	})
	d := descr(0, 0, 0, 3, 0, 3, c)
	conns := c.Connect(d)
	if len(conns) != 6 {
		t.Fatalf("expected 6 connections, got %d", len(conns))
	}
	for _, conn := range conns {
		if conn.Src == conn.Tar {
			t.Fatalf("functor nil result was emitted: %v", conn)
		}
		if conn.Params[1] != model.Real(conn.Src+conn.Tar) {
			t.Fatalf("unexpected delay: %v", conn)
		}
	}
}

func TestUniformFunctor(t *testing.T) {
	c := UniformFunctor(func(src, tar model.NeuronIndex) bool {
		return src < tar
	}, 0.3, 2)
	d := descr(0, 0, 0, 4, 0, 4, c)
	conns := c.Connect(d)
	if len(conns) != 6 {
		t.Fatalf("expected 6 upper-triangle connections, got %d", len(conns))
	}
	for _, conn := range conns {
		if !reflect.DeepEqual(conn.Params, []model.Real{0.3, 2}) {
			t.Fatalf("unexpected parameters: %v", conn.Params)
		}
	}
}

func TestFixedProbabilityExtremes(t *testing.T) {
	inner := AllToAll(0.1, 1, true)
	d := descr(0, 1, 0, 8, 0, 8, inner)

	all := FixedProbabilitySeed(AllToAll(0.1, 1, true), 1, 42)
	if got := len(all.Connect(d)); got != 64 {
		t.Fatalf("p=1 must keep all 64 connections, got %d", got)
	}

	none := FixedProbabilitySeed(AllToAll(0.1, 1, true), 0, 42)
	if got := len(none.Connect(d)); got != 0 {
		t.Fatalf("p=0 must keep nothing, got %d", got)
	}
}

func TestFixedProbabilitySeededReproducible(t *testing.T) {
	d := descr(0, 1, 0, 16, 0, 16, nil)
	a := FixedProbabilitySeed(AllToAll(0.1, 1, true), 0.5, 436283).Connect(d)
	b := FixedProbabilitySeed(AllToAll(0.1, 1, true), 0.5, 436283).Connect(d)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical seeds must reproduce the synapse list")
	}

	c := FixedProbabilitySeed(AllToAll(0.1, 1, true), 0.5, 436284).Connect(d)
	if reflect.DeepEqual(a, c) {
		t.Fatal("distinct seeds must draw different synapse lists")
	}
}

func TestFixedProbabilityRepeatedConnectAdvancesEngine(t *testing.T) {
	d := descr(0, 1, 0, 16, 0, 16, nil)
	c := FixedProbabilitySeed(AllToAll(0.1, 1, true), 0.5, 99)
	first := c.Connect(d)
	second := c.Connect(d)
	if reflect.DeepEqual(first, second) {
		t.Fatal("repeated Connect on one connector must advance the engine")
	}
}

func TestFixedProbabilityGroup(t *testing.T) {
	c := FixedProbabilitySeed(AllToAll(0.1, 1, true), 0.5, 1)
	d := descr(0, 1, 0, 4, 0, 4, c)
	g, ok := c.Group(d)
	if !ok {
		t.Fatal("fixed probability over all-to-all must expose a group form")
	}
	if g.ConnectorName != "FixedProbabilityConnector" || g.AdditionalParameter != 0.5 {
		t.Fatalf("unexpected group: %+v", g)
	}

	overList := FixedProbabilitySeed(FromList([]Connection{{Src: 0, Tar: 0, Params: []model.Real{1, 1}}}), 0.5, 1)
	if _, ok := overList.Group(d); ok {
		t.Fatal("fixed probability over a list must not be compact")
	}
}

func TestRandomConnector(t *testing.T) {
	d := descr(0, 1, 0, 16, 0, 16, nil)
	c := RandomSeed(0.1, 1, 0.5, true, 8791)
	g, ok := c.Group(d)
	if !ok {
		t.Fatal("random connector must always expose a group form")
	}
	if g.ConnectorName != "RandomConnector" || g.AdditionalParameter != 0.5 {
		t.Fatalf("unexpected group: %+v", g)
	}

	a := RandomSeed(0.1, 1, 0.5, true, 8791).Connect(d)
	b := RandomSeed(0.1, 1, 0.5, true, 8791).Connect(d)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical seeds must reproduce the synapse list")
	}
}

func TestFixedFanInCounts(t *testing.T) {
	c := FixedFanInSeed(8, 0.1, 1, true, 8791)
	d := descr(0, 1, 0, 16, 0, 16, c)
	if !c.Valid(d) {
		t.Fatal("fan-in 8 from 16 sources must be valid")
	}
	conns := c.Connect(d)
	if len(conns) != 8*16 {
		t.Fatalf("expected %d connections, got %d", 8*16, len(conns))
	}
	perTarget := make(map[model.NeuronIndex]map[model.NeuronIndex]bool)
	for _, conn := range conns {
		if conn.Src < 0 || conn.Src >= 16 {
			t.Fatalf("source out of range: %d", conn.Src)
		}
		m := perTarget[conn.Tar]
		if m == nil {
			m = make(map[model.NeuronIndex]bool)
			perTarget[conn.Tar] = m
		}
		if m[conn.Src] {
			t.Fatalf("duplicate source %d for target %d", conn.Src, conn.Tar)
		}
		m[conn.Src] = true
	}
	if len(perTarget) != 16 {
		t.Fatalf("expected 16 targets, got %d", len(perTarget))
	}
	for tar, srcs := range perTarget {
		if len(srcs) != 8 {
			t.Fatalf("target %d has %d sources, want 8", tar, len(srcs))
		}
	}
}

func TestFixedFanInDeterminism(t *testing.T) {
	d := descr(0, 1, 0, 16, 0, 16, nil)
	a := FixedFanInSeed(8, 0.1, 1, true, 8791).Connect(d)
	b := FixedFanInSeed(8, 0.1, 1, true, 8791).Connect(d)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical seeds must reproduce the synapse set")
	}
	c := FixedFanInSeed(8, 0.1, 1, true, 8792).Connect(d)
	if reflect.DeepEqual(a, c) {
		t.Fatal("distinct seeds must differ")
	}
}

func TestFixedFanInFeasibility(t *testing.T) {
	c := FixedFanInSeed(16, 0.1, 1, false, 1)
	d := descr(0, 0, 0, 16, 0, 16, c)
	if c.Valid(d) {
		t.Fatal("fan-in 16 without self from 16 sources must be infeasible")
	}
	c = FixedFanInSeed(15, 0.1, 1, false, 1)
	d = descr(0, 0, 0, 16, 0, 16, c)
	if !c.Valid(d) {
		t.Fatal("fan-in 15 without self from 16 sources must be feasible")
	}
	for _, conn := range c.Connect(d) {
		if conn.Src == conn.Tar {
			t.Fatalf("self connection sampled: %d", conn.Src)
		}
	}
}

func TestFixedFanOutCounts(t *testing.T) {
	c := FixedFanOutSeed(4, 0.1, 1, true, 7)
	d := descr(0, 1, 0, 8, 0, 16, c)
	conns := c.Connect(d)
	if len(conns) != 4*8 {
		t.Fatalf("expected %d connections, got %d", 4*8, len(conns))
	}
	perSource := make(map[model.NeuronIndex]int)
	for _, conn := range conns {
		perSource[conn.Src]++
		if conn.Tar < 0 || conn.Tar >= 16 {
			t.Fatalf("target out of range: %d", conn.Tar)
		}
	}
	for src, n := range perSource {
		if n != 4 {
			t.Fatalf("source %d has fan-out %d, want 4", src, n)
		}
	}
}

func TestFixedFanOutNotCompact(t *testing.T) {
	c := FixedFanOutSeed(4, 0.1, 1, true, 7)
	if _, ok := c.Group(descr(0, 1, 0, 8, 0, 16, c)); ok {
		t.Fatal("fixed fan-out must not expose a group form")
	}
}

func TestDescriptorValid(t *testing.T) {
	c := AllToAll(0.1, 1, true)
	if !descr(0, 1, 0, 4, 0, 4, c).Valid() {
		t.Fatal("well-formed descriptor must be valid")
	}
	if descr(0, 1, 4, 4, 0, 4, c).Valid() {
		t.Fatal("empty source range must be invalid")
	}
	if descr(0, 1, 0, 4, 3, 2, c).Valid() {
		t.Fatal("reversed target range must be invalid")
	}
	if (Descriptor{SrcBegin: 0, SrcEnd: 1, TarBegin: 0, TarEnd: 1}).Valid() {
		t.Fatal("descriptor without connector must be invalid")
	}
}

func TestFromGroup(t *testing.T) {
	syn := synapse.Static(0.4, 2)
	c, err := FromGroup("AllToAllConnector", syn, 0, false)
	if err != nil {
		t.Fatalf("from group: %v", err)
	}
	if c.Name() != "AllToAllConnector" || c.AllowSelfConnections() {
		t.Fatalf("unexpected connector: %s allowSelf=%v", c.Name(), c.AllowSelfConnections())
	}
	if c.Synapse().Weight() != 0.4 {
		t.Fatalf("synapse template lost: %v", c.Synapse().Parameters())
	}

	c, err = FromGroup("FixedFanInConnector", syn, 3, true)
	if err != nil {
		t.Fatalf("from group: %v", err)
	}
	if c.AdditionalParameter() != 3 {
		t.Fatalf("fan-in lost: %v", c.AdditionalParameter())
	}

	if _, err := FromGroup("NoSuchConnector", syn, 0, true); err == nil {
		t.Fatal("expected error for unknown connector name")
	}
}

func TestFromConnectionsKeepsWireIdentity(t *testing.T) {
	entries := []Connection{{Src: 0, Tar: 1, Params: []model.Real{0.1, 1}}}
	c, err := FromConnections("FixedProbabilityConnector", synapse.Static(0.1, 1), 0.5, true, entries)
	if err != nil {
		t.Fatalf("from connections: %v", err)
	}
	if c.Name() != "FixedProbabilityConnector" || c.AdditionalParameter() != 0.5 {
		t.Fatalf("wire identity lost: %s %v", c.Name(), c.AdditionalParameter())
	}
	d := descr(0, 1, 0, 4, 0, 4, c)
	if !reflect.DeepEqual(c.Connect(d), entries) {
		t.Fatalf("unexpected connections: %v", c.Connect(d))
	}

	// Decoded empty lists are legitimate (everything was dropped upstream).
	c, err = FromConnections("FromListConnector", nil, 0, true, nil)
	if err != nil {
		t.Fatalf("from connections: %v", err)
	}
	if !c.Valid(d) {
		t.Fatal("decoded empty list must stay valid")
	}
}
