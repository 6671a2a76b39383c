// Package config loads run presets from YAML files. A preset captures the
// full shape of a training run so experiments can be replayed from a file
// instead of a wall of flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunPreset describes one training run.
type RunPreset struct {
	// Scape names the evaluation environment: "sustain" or "pulse-echo".
	Scape string `yaml:"scape"`

	// NeuronCount and ConnectionCount fix the ring shape.
	NeuronCount     int `yaml:"neuron_count"`
	ConnectionCount int `yaml:"connection_count"`

	// InputNeurons and OutputNeurons are the initial sensor and actuator
	// indices. Evolution may shift them afterwards.
	InputNeurons  []int `yaml:"input_neurons"`
	OutputNeurons []int `yaml:"output_neurons"`

	PopulationSize int   `yaml:"population_size"`
	EliteCount     int   `yaml:"elite_count"`
	Generations    int   `yaml:"generations"`
	MutationPower  uint8 `yaml:"mutation_power"`

	// TargetFitness, when set, stops the run early once the best individual
	// reaches it.
	TargetFitness *float64 `yaml:"target_fitness,omitempty"`

	Workers int    `yaml:"workers,omitempty"`
	Seed    uint64 `yaml:"seed,omitempty"`
}

// Load reads a RunPreset from a YAML file.
func Load(path string) (*RunPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset %s: %w", path, err)
	}
	var preset RunPreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}
	return &preset, nil
}
