package backend

import (
	"context"
	"strings"

	"cypress/internal/model"
	"cypress/internal/network"
)

// nullBackend fulfils the run contract without simulating anything: every
// flagged neuron gets a freshly allocated empty trace of the right shape.
// It exists for wiring checks and as the executor's fallback target.
type nullBackend struct{}

func newNullBackend(string, map[string]any) (Backend, error) {
	return nullBackend{}, nil
}

func (nullBackend) Name() string { return "null" }

func (nullBackend) Run(_ context.Context, net *network.Network, duration model.Real) error {
	for pid := 0; pid < net.PopulationCount(); pid++ {
		data := net.Data(model.PopulationIndex(pid))
		for i, sig := range data.Type().Signals {
			cols := 2
			if strings.HasPrefix(sig, "spikes") {
				cols = 1
			}
			for nid := model.NeuronIndex(0); int(nid) < data.Size(); nid++ {
				if !data.RecordFlag(nid, nid+1, i) {
					continue
				}
				if err := data.SetTrace(nid, i, model.NewMatrix(0, cols)); err != nil {
					return err
				}
			}
		}
	}
	net.SetRuntime(model.NetworkRuntime{Duration: float64(duration)})
	return nil
}
