package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	data := []byte(`scape: pulse-echo
neuron_count: 32
connection_count: 6
input_neurons: [0, 1]
output_neurons: [16]
population_size: 40
elite_count: 8
generations: 25
mutation_power: 12
target_fitness: 0.95
workers: 4
seed: 42
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	preset, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if preset.Scape != "pulse-echo" {
		t.Fatalf("scape: got=%s want=pulse-echo", preset.Scape)
	}
	if preset.NeuronCount != 32 || preset.ConnectionCount != 6 {
		t.Fatalf("shape: got=%d/%d want=32/6", preset.NeuronCount, preset.ConnectionCount)
	}
	if len(preset.InputNeurons) != 2 || preset.OutputNeurons[0] != 16 {
		t.Fatalf("io: %+v / %+v", preset.InputNeurons, preset.OutputNeurons)
	}
	if preset.TargetFitness == nil || *preset.TargetFitness != 0.95 {
		t.Fatalf("target fitness: %+v", preset.TargetFitness)
	}
	if preset.MutationPower != 12 || preset.Seed != 42 {
		t.Fatalf("tuning: power=%d seed=%d", preset.MutationPower, preset.Seed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scape: [unterminated"), 0o600); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
