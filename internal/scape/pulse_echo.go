package scape

import (
	"context"
	"fmt"

	"siarne/internal/net"
)

// PulseEchoScape scores temporal pattern matching: a stimulus pulse arrives
// every Period ticks, and the first mapped output neuron should fire exactly
// Delay ticks after each pulse and stay silent otherwise. Fitness is the
// fraction of ticks on which the output matched the expected echo pattern.
type PulseEchoScape struct {
	Ticks    int
	Period   int
	Delay    int
	Stimulus int32
}

func (PulseEchoScape) Name() string {
	return "pulse-echo"
}

func (s PulseEchoScape) Evaluate(ctx context.Context, topo net.Topology, params *net.Parameters) (float64, error) {
	ticks := s.Ticks
	if ticks <= 0 {
		ticks = 96
	}
	period := s.Period
	if period <= 0 {
		period = 8
	}
	delay := s.Delay
	if delay <= 0 {
		delay = 2
	}
	stimulus := s.Stimulus
	if stimulus == 0 {
		stimulus = 1 << 20
	}
	if delay >= period {
		return 0, fmt.Errorf("pulse-echo delay %d must be below period %d", delay, period)
	}
	if len(params.IO.Inputs) == 0 || len(params.IO.Outputs) == 0 {
		return 0, fmt.Errorf("pulse-echo scape needs at least one input and one output neuron")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	state := net.NewState(topo)
	external := make([]int32, len(params.IO.Inputs))

	matched := 0
	for tick := 0; tick < ticks; tick++ {
		phase := tick % period
		value := int32(0)
		if phase == 0 {
			value = stimulus
		}
		for i := range external {
			external[i] = value
		}

		outputs, err := net.Tick(topo, params, state, external)
		if err != nil {
			return 0, err
		}

		wantFire := phase == delay
		if outputs[0].Fired == wantFire {
			matched++
		}
	}
	return float64(matched) / float64(ticks), nil
}
