package net

import (
	"errors"
	"testing"

	"siarne/internal/rng"
)

func mustTopology(t *testing.T, n, k int, io IOMapping) Topology {
	t.Helper()
	topo, err := NewTopology(n, k, io)
	if err != nil {
		t.Fatalf("topology(%d,%d): %v", n, k, err)
	}
	return topo
}

func uniformParameters(topo Topology, threshold int32, effect int8) *Parameters {
	thresholds := make([]int32, topo.NeuronCount())
	for i := range thresholds {
		thresholds[i] = threshold
	}
	effects := make([]int8, topo.EffectCount())
	for i := range effects {
		effects[i] = effect
	}
	return &Parameters{Thresholds: thresholds, Effects: effects, IO: topo.IO()}
}

// The ring example from the engine contract: N=8, K=2 (self + next
// neighbor), all effects +5, all thresholds 4, stimulus 10 at neuron 0.
func TestTickSingleStimulusPropagation(t *testing.T) {
	topo := mustTopology(t, 8, 2, IOMapping{Inputs: []int{0}, Outputs: []int{0, 1}})
	params := uniformParameters(topo, 4, 5)
	state := NewState(topo)

	outputs, err := Tick(topo, params, state, []int32{10})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}

	if !outputs[0].Fired || outputs[0].Value != 10 {
		t.Fatalf("neuron 0 should fire on value 10: %+v", outputs[0])
	}
	if outputs[1].Fired {
		t.Fatalf("neuron 1 must not fire on tick 1: %+v", outputs[1])
	}

	want := []int32{5, 5, 0, 0, 0, 0, 0, 0}
	for i, v := range state.Current() {
		if v != want[i] {
			t.Fatalf("next state mismatch at %d: got=%d want=%d", i, v, want[i])
		}
	}
	fired := state.Fired()
	for i := 1; i < len(fired); i++ {
		if fired[i] {
			t.Fatalf("neuron %d fired without stimulus", i)
		}
	}
}

func TestTickThresholdComparisonIsStrict(t *testing.T) {
	topo := mustTopology(t, 4, 1, IOMapping{Inputs: []int{0}, Outputs: []int{0}})
	params := uniformParameters(topo, 10, 1)
	state := NewState(topo)

	outputs, err := Tick(topo, params, state, []int32{10})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if outputs[0].Fired {
		t.Fatal("neuron fired at exactly its threshold; comparison must be strict")
	}

	outputs, err = Tick(topo, params, state, []int32{11})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !outputs[0].Fired {
		t.Fatal("neuron did not fire above its threshold")
	}
}

func TestTickExternalInputOverwrites(t *testing.T) {
	topo := mustTopology(t, 4, 1, IOMapping{Inputs: []int{0}, Outputs: []int{0}})
	params := uniformParameters(topo, 100, 1)
	state := NewState(topo)

	state.Current()[0] = 50
	outputs, err := Tick(topo, params, state, []int32{7})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if outputs[0].Value != 7 {
		t.Fatalf("stimulus must overwrite accumulated input: got=%d want=7", outputs[0].Value)
	}
}

func TestTickZeroInputStability(t *testing.T) {
	topo := mustTopology(t, 16, 3, IOMapping{Inputs: []int{0, 5}, Outputs: []int{2, 9}})
	// Max effect sum per neuron is K*127; any threshold above it is
	// unreachable.
	params := uniformParameters(topo, 3*127+1, 127)
	state := NewState(topo)

	for tick := 0; tick < 200; tick++ {
		outputs, err := Tick(topo, params, state, []int32{0, 0})
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		for i, out := range outputs {
			if out.Fired || out.Value != 0 {
				t.Fatalf("tick %d output %d not silent: %+v", tick, i, out)
			}
		}
		for i, fired := range state.Fired() {
			if fired {
				t.Fatalf("tick %d: neuron %d fired with zero input", tick, i)
			}
		}
	}
}

// Permuting the neuron processing order within the apply phase must not
// change the next-state buffer: the engine result has to match a scalar
// reference that walks neurons in a scrambled order, bit for bit.
func TestTickApplyOrderIndependence(t *testing.T) {
	topo := mustTopology(t, 32, 5, IOMapping{Inputs: []int{0, 1, 2}, Outputs: []int{31}})
	source := rng.New(99)
	params, err := RandomParameters(topo, source)
	if err != nil {
		t.Fatalf("random parameters: %v", err)
	}
	// Low thresholds so plenty of neurons fire.
	for i := range params.Thresholds {
		params.Thresholds[i] = int32(source.IntN(64)) - 32
	}

	state := NewState(topo)
	stimulus := []int32{100, -100, 77}

	// Snapshot the decide inputs, then compute the reference next buffer in
	// a permuted neuron order.
	pre := append([]int32(nil), state.Current()...)
	for i, idx := range params.IO.Inputs {
		pre[idx] = stimulus[i]
	}
	n, k := topo.NeuronCount(), topo.ConnectionCount()
	want := make([]int32, n)
	order := rng.New(7)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := order.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	for _, i := range perm {
		if pre[i] <= params.Thresholds[i] {
			continue
		}
		for j := 0; j < k; j++ {
			want[topo.Target(i, j)] += int32(params.Effects[i*k+j])
		}
	}

	if _, err := Tick(topo, params, state, stimulus); err != nil {
		t.Fatalf("tick: %v", err)
	}
	for i, v := range state.Current() {
		if v != want[i] {
			t.Fatalf("apply order changed result at %d: got=%d want=%d", i, v, want[i])
		}
	}
}

func TestTickDeterminism(t *testing.T) {
	topo := mustTopology(t, 24, 4, IOMapping{Inputs: []int{3}, Outputs: []int{0, 12, 23}})
	params, err := RandomParameters(topo, rng.New(1234))
	if err != nil {
		t.Fatalf("random parameters: %v", err)
	}
	for i := range params.Thresholds {
		params.Thresholds[i] %= 100
	}

	a := NewState(topo)
	b := NewState(topo)
	stimuli := rng.New(55)

	for tick := 0; tick < 100; tick++ {
		in := []int32{stimuli.Int32() % 200}
		outA, err := Tick(topo, params, a, in)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		outB, err := Tick(topo, params.Clone(), b, in)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		for i := range outA {
			if outA[i] != outB[i] {
				t.Fatalf("tick %d output %d diverged: got=%+v want=%+v", tick, i, outB[i], outA[i])
			}
		}
	}
}

func TestTickInputSizeMismatch(t *testing.T) {
	topo := mustTopology(t, 8, 2, IOMapping{Inputs: []int{0, 1}, Outputs: []int{7}})
	params := uniformParameters(topo, 0, 1)
	state := NewState(topo)

	_, err := Tick(topo, params, state, []int32{1})
	if !errors.Is(err, ErrInputSize) {
		t.Fatalf("expected ErrInputSize, got %v", err)
	}
}

func TestTickParameterSizeMismatch(t *testing.T) {
	topo := mustTopology(t, 8, 2, IOMapping{})
	other := mustTopology(t, 6, 2, IOMapping{})
	params := uniformParameters(other, 0, 1)
	state := NewState(topo)

	_, err := Tick(topo, params, state, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestTickStateMismatch(t *testing.T) {
	topo := mustTopology(t, 8, 2, IOMapping{})
	small := mustTopology(t, 4, 2, IOMapping{})
	params := uniformParameters(topo, 0, 1)

	_, err := Tick(topo, params, NewState(small), nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStateResetClearsRun(t *testing.T) {
	topo := mustTopology(t, 8, 2, IOMapping{Inputs: []int{0}, Outputs: []int{0}})
	params := uniformParameters(topo, 4, 5)
	state := NewState(topo)

	if _, err := Tick(topo, params, state, []int32{10}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	state.Reset()
	for i, v := range state.Current() {
		if v != 0 {
			t.Fatalf("current[%d] not cleared: %d", i, v)
		}
	}
	for i, fired := range state.Fired() {
		if fired {
			t.Fatalf("fired[%d] not cleared", i)
		}
	}
}

func TestRandomParametersRequiresSource(t *testing.T) {
	topo := mustTopology(t, 8, 2, IOMapping{})
	_, err := RandomParameters(topo, nil)
	if !errors.Is(err, rng.ErrSourceRequired) {
		t.Fatalf("expected ErrSourceRequired, got %v", err)
	}
}

func TestRandomParametersShape(t *testing.T) {
	topo := mustTopology(t, 16, 3, IOMapping{Inputs: []int{1, 2}, Outputs: []int{15}})
	params, err := RandomParameters(topo, rng.New(8))
	if err != nil {
		t.Fatalf("random parameters: %v", err)
	}
	if err := params.Validate(topo); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got, want := len(params.Thresholds), 16; got != want {
		t.Fatalf("threshold count: got=%d want=%d", got, want)
	}
	if got, want := len(params.Effects), 48; got != want {
		t.Fatalf("effect count: got=%d want=%d", got, want)
	}
}
