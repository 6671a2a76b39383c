// Package scape provides example fitness tasks for the trainer. A scape
// drives the tick engine over an episode and scores how well a parameter
// set's network behaves. Scapes are the external-collaborator side of the
// trainer API: the trainer itself never knows what is being optimized.
package scape

import (
	"context"
	"fmt"

	"siarne/internal/net"
)

type Scape interface {
	Name() string
	Evaluate(ctx context.Context, topo net.Topology, params *net.Parameters) (float64, error)
}

// ByName resolves a scape with its default configuration.
func ByName(name string) (Scape, error) {
	switch name {
	case "sustain":
		return SustainScape{}, nil
	case "pulse-echo":
		return PulseEchoScape{}, nil
	default:
		return nil, fmt.Errorf("unknown scape: %s", name)
	}
}

// Fitness adapts a scape to the trainer's fitness function signature for a
// fixed topology.
func Fitness(s Scape, topo net.Topology) func(ctx context.Context, params *net.Parameters) (float64, error) {
	return func(ctx context.Context, params *net.Parameters) (float64, error) {
		return s.Evaluate(ctx, topo, params)
	}
}
