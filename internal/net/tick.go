package net

import "fmt"

// Output is what one tick exposes at a single mapped output neuron: the
// accumulated input before the update and whether the neuron fired on it.
// Callers pick whichever signal suits their task.
type Output struct {
	Value int32
	Fired bool
}

// Tick executes one synchronous update step of the whole network.
//
// The update runs in two phases. The decide phase is read-only over the
// current buffer: external stimulus overwrites the accumulated value at each
// mapped input neuron, then neuron i fires iff current[i] > threshold[i]
// (strict). The apply phase is write-only into the zeroed next buffer: every
// firing neuron adds its K sign-extended effects to its targets. Because the
// phases never read what they write, neuron processing order is irrelevant;
// both loops are plain passes over flat arrays and auto-vectorize.
//
// Accumulation is 32-bit signed with wraparound on overflow. The buffers
// swap before returning, so the caller threads the same State through
// consecutive ticks.
func Tick(t Topology, p *Parameters, s *State, external []int32) ([]Output, error) {
	if err := p.Validate(t); err != nil {
		return nil, err
	}
	if s == nil || len(s.current) != t.NeuronCount() {
		return nil, fmt.Errorf("%w: state buffers sized for a different topology", ErrInvalidConfig)
	}
	if len(external) != len(p.IO.Inputs) {
		return nil, fmt.Errorf("%w: got=%d want=%d", ErrInputSize, len(external), len(p.IO.Inputs))
	}

	for i, idx := range p.IO.Inputs {
		s.current[idx] = external[i]
	}

	// decide
	for i := range s.current {
		s.fired[i] = s.current[i] > p.Thresholds[i]
	}

	outputs := make([]Output, len(p.IO.Outputs))
	for i, idx := range p.IO.Outputs {
		outputs[i] = Output{Value: s.current[idx], Fired: s.fired[idx]}
	}

	// apply
	clear(s.next)
	n := t.NeuronCount()
	k := t.ConnectionCount()
	for i := 0; i < n; i++ {
		if !s.fired[i] {
			continue
		}
		row := p.Effects[i*k : i*k+k]
		for j, effect := range row {
			target := i + j
			if target >= n {
				target -= n
			}
			s.next[target] += int32(effect)
		}
	}

	s.swap()
	return outputs, nil
}
