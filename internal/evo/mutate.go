// Package evo implements parameter mutation and the evolution-strategy
// trainer that searches network parameter space against a caller-supplied
// fitness function.
package evo

import (
	"math"

	"siarne/internal/net"
	"siarne/internal/rng"
)

// IO neuron indices move by offset/4 so the input/output selection drifts
// more slowly than the numeric parameters.
const ioOffsetDivisor = 4

// offset draws one signed integer delta. The distribution concentrates most
// of its mass near zero with occasional large jumps; power shifts mass away
// from zero, so higher powers change parameters more per application.
// Integer math only, so the draw is deterministic across platforms.
func offset(source *rng.Source, power uint8) int64 {
	r := source.Uint64()
	p := uint64(power)

	q := r / (1 + p)
	if q == 0 {
		// r < 1+p: a vanishingly rare draw; treat as the largest jump.
		q = 1
	}
	unsigned := math.MaxUint64/q - p

	magnitude := int64(unsigned / 2)
	if r%2 == 0 {
		return -magnitude
	}
	return magnitude
}

// Mutate returns a child parameter set derived from parent by perturbing
// every connection effect, every threshold, and every IO neuron index with
// independently drawn deltas. Parameter adds saturate: a small offset must
// never flip a parameter across its whole range. The parent is not touched.
func Mutate(parent *net.Parameters, power uint8, source *rng.Source) (*net.Parameters, error) {
	if source == nil {
		return nil, rng.ErrSourceRequired
	}

	child := parent.Clone()

	for i := range child.Effects {
		noise := clamp(offset(source, power), math.MinInt8, math.MaxInt8)
		child.Effects[i] = saturatingAddInt8(child.Effects[i], int8(noise))
	}
	for i := range child.Thresholds {
		noise := clamp(offset(source, power), math.MinInt32, math.MaxInt32)
		child.Thresholds[i] = saturatingAddInt32(child.Thresholds[i], int32(noise))
	}

	n := len(child.Thresholds)
	for i, idx := range child.IO.Inputs {
		child.IO.Inputs[i] = shiftIndex(idx, offset(source, power)/ioOffsetDivisor, n)
	}
	for i, idx := range child.IO.Outputs {
		child.IO.Outputs[i] = shiftIndex(idx, offset(source, power)/ioOffsetDivisor, n)
	}

	return child, nil
}

// NoisePass describes one seeded noise application for reproducible
// population seeding.
type NoisePass struct {
	Seed  uint64
	Power uint8
}

// BuildFromNoise constructs parameters by random initialization from seed
// followed by the given noise passes, each with its own stream. The whole
// construction is deterministic.
func BuildFromNoise(t net.Topology, seed uint64, passes []NoisePass) (*net.Parameters, error) {
	params, err := net.RandomParameters(t, rng.New(seed))
	if err != nil {
		return nil, err
	}
	for _, pass := range passes {
		params, err = Mutate(params, pass.Power, rng.New(pass.Seed))
		if err != nil {
			return nil, err
		}
	}
	return params, nil
}

func shiftIndex(index int, delta int64, n int) int {
	step := int(delta % int64(n))
	idx := (index + step) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func saturatingAddInt8(v, d int8) int8 {
	sum := int16(v) + int16(d)
	if sum > math.MaxInt8 {
		return math.MaxInt8
	}
	if sum < math.MinInt8 {
		return math.MinInt8
	}
	return int8(sum)
}

func saturatingAddInt32(v, d int32) int32 {
	sum := int64(v) + int64(d)
	if sum > math.MaxInt32 {
		return math.MaxInt32
	}
	if sum < math.MinInt32 {
		return math.MinInt32
	}
	return int32(sum)
}
