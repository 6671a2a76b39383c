package net

// State holds the double-buffered accumulated inputs and the firing flags of
// one simulation run. The two buffers make the tick's apply phase write-only:
// accumulation order within a tick can never change the result, which is the
// property that allows batched or vectorized execution.
type State struct {
	current []int32
	next    []int32
	fired   []bool
}

func NewState(t Topology) *State {
	return &State{
		current: make([]int32, t.NeuronCount()),
		next:    make([]int32, t.NeuronCount()),
		fired:   make([]bool, t.NeuronCount()),
	}
}

// Reset zeroes all buffers for a fresh simulation run.
func (s *State) Reset() {
	clear(s.current)
	clear(s.next)
	clear(s.fired)
}

// Current exposes the accumulated input buffer of the last executed tick.
// Callers may also write into it to inject stimulus outside the IO mapping.
func (s *State) Current() []int32 {
	return s.current
}

// Fired exposes the firing flags recorded by the last executed tick.
func (s *State) Fired() []bool {
	return s.fired
}

func (s *State) swap() {
	s.current, s.next = s.next, s.current
}
