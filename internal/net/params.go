package net

import (
	"fmt"

	"siarne/internal/rng"
)

// Parameters is the full mutable numeric payload over a topology: one int32
// threshold per neuron, a flat row-major table of int8 connection effects
// (row i holds the K effects of neuron i, column j feeding (i+j) mod N), and
// the input/output neuron selection. It is a pure value type; the trainer
// copies it per individual so concurrent evaluation never shares state.
type Parameters struct {
	Thresholds []int32
	Effects    []int8
	IO         IOMapping
}

// RandomParameters draws thresholds and effects uniformly over their full
// ranges from source and copies the topology's IO mapping. The self
// connection of every neuron exists by layout (column 0 of its effect row),
// so no randomization can violate the invariant.
func RandomParameters(t Topology, source *rng.Source) (*Parameters, error) {
	if source == nil {
		return nil, rng.ErrSourceRequired
	}

	thresholds := make([]int32, t.NeuronCount())
	for i := range thresholds {
		thresholds[i] = source.Int32()
	}
	effects := make([]int8, t.EffectCount())
	for i := range effects {
		effects[i] = source.Int8()
	}

	return &Parameters{
		Thresholds: thresholds,
		Effects:    effects,
		IO:         t.IO(),
	}, nil
}

func (p *Parameters) Clone() *Parameters {
	return &Parameters{
		Thresholds: append([]int32(nil), p.Thresholds...),
		Effects:    append([]int8(nil), p.Effects...),
		IO:         p.IO.Clone(),
	}
}

// Validate checks the payload against a topology. A mismatch means the
// parameters were built for a different network shape.
func (p *Parameters) Validate(t Topology) error {
	if p == nil {
		return fmt.Errorf("%w: parameters are required", ErrInvalidConfig)
	}
	if len(p.Thresholds) != t.NeuronCount() {
		return fmt.Errorf("%w: threshold count mismatch: got=%d want=%d", ErrInvalidConfig, len(p.Thresholds), t.NeuronCount())
	}
	if len(p.Effects) != t.EffectCount() {
		return fmt.Errorf("%w: effect count mismatch: got=%d want=%d", ErrInvalidConfig, len(p.Effects), t.EffectCount())
	}
	return p.IO.Validate(t.NeuronCount())
}
