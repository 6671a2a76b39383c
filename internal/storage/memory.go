package storage

import (
	"context"
	"sync"

	"siarne/internal/model"
)

// MemoryStore keeps records in process memory. It is the default store and
// the one the tests exercise.
type MemoryStore struct {
	mu          sync.RWMutex
	params      map[string][]byte
	runs        map[string][]byte
	runOrder    []string
	histories   map[string][]byte
	diagnostics map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.params == nil {
		m.params = make(map[string][]byte)
		m.runs = make(map[string][]byte)
		m.histories = make(map[string][]byte)
		m.diagnostics = make(map[string][]byte)
	}
	return nil
}

func (m *MemoryStore) SaveParameterSet(ctx context.Context, params model.ParameterSet) error {
	data, err := EncodeParameterSet(params)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params[params.ID] = data
	return nil
}

func (m *MemoryStore) GetParameterSet(ctx context.Context, id string) (model.ParameterSet, bool, error) {
	m.mu.RLock()
	data, ok := m.params[id]
	m.mu.RUnlock()
	if !ok {
		return model.ParameterSet{}, false, nil
	}
	params, err := DecodeParameterSet(data)
	if err != nil {
		return model.ParameterSet{}, false, err
	}
	return params, true, nil
}

func (m *MemoryStore) SaveRun(ctx context.Context, run model.Run) error {
	data, err := EncodeRun(run)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.runs[run.ID]; !exists {
		m.runOrder = append(m.runOrder, run.ID)
	}
	m.runs[run.ID] = data
	return nil
}

func (m *MemoryStore) GetRun(ctx context.Context, id string) (model.Run, bool, error) {
	m.mu.RLock()
	data, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return model.Run{}, false, nil
	}
	run, err := DecodeRun(data)
	if err != nil {
		return model.Run{}, false, err
	}
	return run, true, nil
}

func (m *MemoryStore) ListRuns(ctx context.Context) ([]model.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := make([]model.Run, 0, len(m.runOrder))
	for _, id := range m.runOrder {
		run, err := DecodeRun(m.runs[id])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (m *MemoryStore) SaveFitnessHistory(ctx context.Context, runID string, history []float64) error {
	data, err := EncodeFitnessHistory(history)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories[runID] = data
	return nil
}

func (m *MemoryStore) GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error) {
	m.mu.RLock()
	data, ok := m.histories[runID]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	history, err := DecodeFitnessHistory(data)
	if err != nil {
		return nil, false, err
	}
	return history, true, nil
}

func (m *MemoryStore) SaveDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	data, err := EncodeDiagnostics(diagnostics)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnostics[runID] = data
	return nil
}

func (m *MemoryStore) GetDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	m.mu.RLock()
	data, ok := m.diagnostics[runID]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	diagnostics, err := DecodeDiagnostics(data)
	if err != nil {
		return nil, false, err
	}
	return diagnostics, true, nil
}
