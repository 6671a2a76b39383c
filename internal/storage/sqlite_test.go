//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"siarne/internal/model"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "siarne.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer store.Close()

	params := model.ParameterSet{
		VersionedRecord: Stamp(),
		ID:              "params-1",
		NeuronCount:     2,
		ConnectionCount: 1,
		Thresholds:      []int32{1, 2},
		Effects:         []int8{3, 4},
		InputNeurons:    []int{0},
		OutputNeurons:   []int{1},
	}
	if err := store.SaveParameterSet(ctx, params); err != nil {
		t.Fatalf("save parameter set: %v", err)
	}
	got, ok, err := store.GetParameterSet(ctx, "params-1")
	if err != nil {
		t.Fatalf("get parameter set: %v", err)
	}
	if !ok || got.NeuronCount != 2 {
		t.Fatalf("unexpected parameter set: %+v", got)
	}

	run := model.Run{VersionedRecord: Stamp(), ID: "run-1", Scape: "sustain", BestParamsID: "params-1"}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	if err := store.SaveFitnessHistory(ctx, "run-1", []float64{0.5, 0.6}); err != nil {
		t.Fatalf("save history: %v", err)
	}
	history, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok || len(history) != 2 {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	store := NewSQLiteStore("")
	if err := store.Init(context.Background()); err == nil {
		t.Fatal("expected error for empty path")
	}
}
