package storage

import (
	"context"

	"siarne/internal/model"
)

// Store persists parameter sets and training runs. Persistence is a
// collaborator of the core, not part of it: the engine and trainer operate
// purely on in-memory structures.
type Store interface {
	Init(ctx context.Context) error
	SaveParameterSet(ctx context.Context, params model.ParameterSet) error
	GetParameterSet(ctx context.Context, id string) (model.ParameterSet, bool, error)
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, id string) (model.Run, bool, error)
	ListRuns(ctx context.Context) ([]model.Run, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}
