// Package siarne is the embedding facade. It wires topology, scapes,
// the trainer, and the store together behind a small client so callers
// and the CLI share one code path.
package siarne

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"siarne/internal/evo"
	"siarne/internal/model"
	"siarne/internal/net"
	"siarne/internal/scape"
	"siarne/internal/storage"
)

const defaultDBPath = "siarne.db"

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store
}

type RunRequest struct {
	Scape           string
	NeuronCount     int
	ConnectionCount int
	InputNeurons    []int
	OutputNeurons   []int
	Population      int
	EliteCount      int
	Generations     int
	MutationPower   uint8
	TargetFitness   *float64
	Workers         int
	Seed            uint64
}

type RunSummary struct {
	RunID            string
	BestParamsID     string
	BestFitness      float64
	BestByGeneration []float64
	Generations      int
}

type TickRequest struct {
	ParamsID string
	Ticks    int
	Stimulus int32
}

// TickTrace is one tick of a replayed network: the pre-tick accumulated
// values and fired flags of the mapped output neurons.
type TickTrace struct {
	Tick   int
	Values []int32
	Fired  []bool
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Scape == "" {
		req.Scape = "sustain"
	}
	if req.NeuronCount <= 0 {
		req.NeuronCount = 64
	}
	if req.ConnectionCount <= 0 {
		req.ConnectionCount = 8
	}
	if len(req.InputNeurons) == 0 {
		req.InputNeurons = []int{0}
	}
	if len(req.OutputNeurons) == 0 {
		req.OutputNeurons = []int{req.NeuronCount / 2}
	}
	if req.Population <= 0 {
		req.Population = 50
	}
	if req.EliteCount <= 0 {
		req.EliteCount = req.Population / 5
		if req.EliteCount < 1 {
			req.EliteCount = 1
		}
	}
	if req.Generations <= 0 {
		req.Generations = 100
	}
	if req.MutationPower == 0 {
		req.MutationPower = 16
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}

	topo, err := net.NewTopology(req.NeuronCount, req.ConnectionCount, net.IOMapping{
		Inputs:  req.InputNeurons,
		Outputs: req.OutputNeurons,
	})
	if err != nil {
		return RunSummary{}, err
	}
	env, err := scape.ByName(req.Scape)
	if err != nil {
		return RunSummary{}, err
	}

	cfg := evo.Config{
		Topology:       topo,
		PopulationSize: req.Population,
		EliteCount:     req.EliteCount,
		Generations:    req.Generations,
		MutationPower:  req.MutationPower,
		Workers:        req.Workers,
		Seed:           req.Seed,
		Fitness:        scape.Fitness(env, topo),
	}
	if req.TargetFitness != nil {
		cfg.TargetFitness = *req.TargetFitness
		cfg.StopAtTarget = true
	}
	trainer, err := evo.NewTrainer(cfg)
	if err != nil {
		return RunSummary{}, err
	}

	result, err := trainer.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	if err := c.store.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	paramsID := uuid.NewString()
	record := parameterRecord(paramsID, topo, result.Best.Params)
	if err := c.store.SaveParameterSet(ctx, record); err != nil {
		return RunSummary{}, err
	}

	runID := uuid.NewString()
	run := model.Run{
		VersionedRecord: storage.Stamp(),
		ID:              runID,
		Scape:           req.Scape,
		Seed:            req.Seed,
		NeuronCount:     req.NeuronCount,
		ConnectionCount: req.ConnectionCount,
		PopulationSize:  req.Population,
		EliteCount:      req.EliteCount,
		Generations:     result.Generations,
		MutationPower:   req.MutationPower,
		BestFitness:     result.Best.Fitness,
		BestParamsID:    paramsID,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, result.BestByGeneration); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveDiagnostics(ctx, runID, result.Diagnostics); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:            runID,
		BestParamsID:     paramsID,
		BestFitness:      result.Best.Fitness,
		BestByGeneration: result.BestByGeneration,
		Generations:      result.Generations,
	}, nil
}

func (c *Client) Runs(ctx context.Context) ([]model.Run, error) {
	if err := c.store.Init(ctx); err != nil {
		return nil, err
	}
	return c.store.ListRuns(ctx)
}

// FitnessHistory returns the best-per-generation curve of a run. An empty
// runID resolves to the most recent run.
func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, error) {
	if err := c.store.Init(ctx); err != nil {
		return nil, err
	}
	runID, err := c.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no fitness history for run %s", runID)
	}
	return history, nil
}

// Diagnostics returns the per-generation population summaries of a run. An
// empty runID resolves to the most recent run.
func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, error) {
	if err := c.store.Init(ctx); err != nil {
		return nil, err
	}
	runID, err := c.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no diagnostics for run %s", runID)
	}
	return diagnostics, nil
}

// ParameterSet fetches a stored parameter set. An empty id resolves to the
// best parameter set of the most recent run.
func (c *Client) ParameterSet(ctx context.Context, id string) (model.ParameterSet, error) {
	if err := c.store.Init(ctx); err != nil {
		return model.ParameterSet{}, err
	}
	id, err := c.resolveParamsID(ctx, id)
	if err != nil {
		return model.ParameterSet{}, err
	}
	params, ok, err := c.store.GetParameterSet(ctx, id)
	if err != nil {
		return model.ParameterSet{}, err
	}
	if !ok {
		return model.ParameterSet{}, fmt.Errorf("parameter set %s not found", id)
	}
	return params, nil
}

// Tick replays a stored parameter set for a number of ticks: stimulus on
// the first tick, silence afterwards. It is a debugging aid for inspecting
// what an evolved network actually does.
func (c *Client) Tick(ctx context.Context, req TickRequest) ([]TickTrace, error) {
	if req.Ticks <= 0 {
		req.Ticks = 16
	}
	if req.Stimulus == 0 {
		req.Stimulus = 1 << 20
	}

	record, err := c.ParameterSet(ctx, req.ParamsID)
	if err != nil {
		return nil, err
	}
	topo, params, err := networkFromRecord(record)
	if err != nil {
		return nil, err
	}

	state := net.NewState(topo)
	external := make([]int32, len(params.IO.Inputs))
	traces := make([]TickTrace, 0, req.Ticks)
	for tick := 0; tick < req.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range external {
			if tick == 0 {
				external[i] = req.Stimulus
			} else {
				external[i] = 0
			}
		}
		outputs, err := net.Tick(topo, params, state, external)
		if err != nil {
			return nil, err
		}
		trace := TickTrace{
			Tick:   tick,
			Values: make([]int32, len(outputs)),
			Fired:  make([]bool, len(outputs)),
		}
		for i, out := range outputs {
			trace.Values[i] = out.Value
			trace.Fired[i] = out.Fired
		}
		traces = append(traces, trace)
	}
	return traces, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string) (string, error) {
	if runID != "" {
		return runID, nil
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs recorded")
	}
	return runs[len(runs)-1].ID, nil
}

func (c *Client) resolveParamsID(ctx context.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	runID, err := c.resolveRunID(ctx, "")
	if err != nil {
		return "", err
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("run %s not found", runID)
	}
	return run.BestParamsID, nil
}

func parameterRecord(id string, topo net.Topology, params *net.Parameters) model.ParameterSet {
	clone := params.Clone()
	return model.ParameterSet{
		VersionedRecord: storage.Stamp(),
		ID:              id,
		NeuronCount:     topo.NeuronCount(),
		ConnectionCount: topo.ConnectionCount(),
		Thresholds:      clone.Thresholds,
		Effects:         clone.Effects,
		InputNeurons:    clone.IO.Inputs,
		OutputNeurons:   clone.IO.Outputs,
	}
}

func networkFromRecord(record model.ParameterSet) (net.Topology, *net.Parameters, error) {
	io := net.IOMapping{Inputs: record.InputNeurons, Outputs: record.OutputNeurons}
	topo, err := net.NewTopology(record.NeuronCount, record.ConnectionCount, io)
	if err != nil {
		return net.Topology{}, nil, err
	}
	params := &net.Parameters{
		Thresholds: record.Thresholds,
		Effects:    record.Effects,
		IO:         io.Clone(),
	}
	if err := params.Validate(topo); err != nil {
		return net.Topology{}, nil, err
	}
	return topo, params, nil
}
