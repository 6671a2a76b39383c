package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"teleport"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunRequiresCommand(t *testing.T) {
	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestRunCommandCompletesOnMemoryStore(t *testing.T) {
	args := []string{
		"run",
		"-store", "memory",
		"-scape", "sustain",
		"-neurons", "8",
		"-connections", "2",
		"-population", "6",
		"-elites", "2",
		"-generations", "2",
		"-workers", "2",
		"-seed", "11",
	}
	if err := run(context.Background(), args); err != nil {
		t.Fatalf("run command: %v", err)
	}
}

func TestRunCommandLoadsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	preset := []byte(`scape: sustain
neuron_count: 8
connection_count: 2
population_size: 6
elite_count: 2
generations: 2
workers: 2
seed: 11
`)
	if err := os.WriteFile(path, preset, 0o600); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	args := []string{"run", "-store", "memory", "-config", path}
	if err := run(context.Background(), args); err != nil {
		t.Fatalf("run command with preset: %v", err)
	}
}

func TestRunCommandRejectsOversizedPower(t *testing.T) {
	args := []string{"run", "-store", "memory", "-power", "300"}
	if err := run(context.Background(), args); err == nil {
		t.Fatal("expected power range error")
	}
}
