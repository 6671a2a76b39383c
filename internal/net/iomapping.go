package net

import "fmt"

// IOMapping names the neurons used to inject external stimulus and to read
// network output. Both lists are ordered and may repeat indices. The mapping
// has its own lifecycle: the same mapping seeds a whole population, after
// which each parameter set evolves its own copy.
type IOMapping struct {
	Inputs  []int
	Outputs []int
}

func (m IOMapping) Clone() IOMapping {
	return IOMapping{
		Inputs:  append([]int(nil), m.Inputs...),
		Outputs: append([]int(nil), m.Outputs...),
	}
}

// Validate checks every index against the ring size.
func (m IOMapping) Validate(neuronCount int) error {
	for i, idx := range m.Inputs {
		if idx < 0 || idx >= neuronCount {
			return fmt.Errorf("%w: input neuron %d out of range [0,%d): %d", ErrInvalidConfig, i, neuronCount, idx)
		}
	}
	for i, idx := range m.Outputs {
		if idx < 0 || idx >= neuronCount {
			return fmt.Errorf("%w: output neuron %d out of range [0,%d): %d", ErrInvalidConfig, i, neuronCount, idx)
		}
	}
	return nil
}
