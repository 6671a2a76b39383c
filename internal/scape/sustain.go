package scape

import (
	"context"
	"fmt"

	"siarne/internal/net"
)

// SustainScape rewards self-sustaining activity: the network receives one
// stimulus on the first tick and nothing afterwards, and is scored on the
// fraction of the remaining ticks in which at least one mapped output neuron
// fires. A network that loops activation through its ring scores 1.
type SustainScape struct {
	Ticks    int
	Stimulus int32
}

func (SustainScape) Name() string {
	return "sustain"
}

func (s SustainScape) Evaluate(ctx context.Context, topo net.Topology, params *net.Parameters) (float64, error) {
	ticks := s.Ticks
	if ticks <= 0 {
		ticks = 64
	}
	stimulus := s.Stimulus
	if stimulus == 0 {
		stimulus = 1 << 20
	}
	if len(params.IO.Inputs) == 0 || len(params.IO.Outputs) == 0 {
		return 0, fmt.Errorf("sustain scape needs at least one input and one output neuron")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	state := net.NewState(topo)
	first := make([]int32, len(params.IO.Inputs))
	for i := range first {
		first[i] = stimulus
	}
	silence := make([]int32, len(params.IO.Inputs))

	if _, err := net.Tick(topo, params, state, first); err != nil {
		return 0, err
	}

	active := 0
	for tick := 1; tick < ticks; tick++ {
		outputs, err := net.Tick(topo, params, state, silence)
		if err != nil {
			return 0, err
		}
		for _, out := range outputs {
			if out.Fired {
				active++
				break
			}
		}
	}
	return float64(active) / float64(ticks-1), nil
}
