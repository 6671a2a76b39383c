// Package net implements the ring-network tick engine: a fixed topology of
// discrete-time threshold neurons over flat fixed-width integer arrays.
package net

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfig covers malformed topology, IO mapping, or
	// parameter/topology size mismatches at construction and call time.
	ErrInvalidConfig = errors.New("invalid network configuration")

	// ErrInputSize is returned by Tick when the external stimulus slice does
	// not match the IO mapping's input count.
	ErrInputSize = errors.New("external input size mismatch")
)

// Topology is the immutable shape of a ring network: N neurons arranged in a
// circle, each with K outgoing connections. Connection j of neuron i targets
// (i+j) mod N, so j == 0 is always the self-connection and every neuron has
// exactly one.
type Topology struct {
	neuronCount     int
	connectionCount int
	io              IOMapping
}

// NewTopology validates and builds a topology. The IO mapping supplied here
// is the initial input/output neuron selection; parameter sets copy it at
// initialization and may evolve their own copy afterwards.
func NewTopology(neuronCount, connectionCount int, io IOMapping) (Topology, error) {
	if neuronCount <= 0 {
		return Topology{}, fmt.Errorf("%w: neuron count must be > 0", ErrInvalidConfig)
	}
	if connectionCount <= 0 {
		return Topology{}, fmt.Errorf("%w: connection count must be > 0", ErrInvalidConfig)
	}
	if connectionCount > neuronCount {
		return Topology{}, fmt.Errorf("%w: connection count %d exceeds neuron count %d", ErrInvalidConfig, connectionCount, neuronCount)
	}
	if neuronCount > math.MaxInt/connectionCount {
		return Topology{}, fmt.Errorf("%w: effect table size overflows", ErrInvalidConfig)
	}

	t := Topology{
		neuronCount:     neuronCount,
		connectionCount: connectionCount,
		io:              io.Clone(),
	}
	if err := io.Validate(neuronCount); err != nil {
		return Topology{}, err
	}
	return t, nil
}

func (t Topology) NeuronCount() int {
	return t.neuronCount
}

func (t Topology) ConnectionCount() int {
	return t.connectionCount
}

// EffectCount is the length of the flat effect table: one row of K effects
// per neuron.
func (t Topology) EffectCount() int {
	return t.neuronCount * t.connectionCount
}

// Target resolves connection conn of neuron index to its target index on the
// ring.
func (t Topology) Target(neuron, conn int) int {
	target := neuron + conn
	if target >= t.neuronCount {
		target -= t.neuronCount
	}
	return target
}

// IO returns a copy of the initial input/output neuron selection.
func (t Topology) IO() IOMapping {
	return t.io.Clone()
}
