package evo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"siarne/internal/model"
	"siarne/internal/net"
	"siarne/internal/rng"
)

// FitnessFunc scores one parameter set. It is opaque to the trainer and
// typically drives the tick engine over some episode. It must be
// deterministic for a given parameter set; it may be called concurrently
// for different individuals.
type FitnessFunc func(ctx context.Context, params *net.Parameters) (float64, error)

// Individual is one candidate parameter set tracked by the trainer.
type Individual struct {
	Params     *net.Parameters
	Fitness    float64
	Generation int
}

type Config struct {
	Topology       net.Topology
	PopulationSize int
	EliteCount     int
	Generations    int
	MutationPower  uint8
	Workers        int
	Seed           uint64
	Fitness        FitnessFunc

	// TargetFitness stops the run early once the best individual reaches it.
	TargetFitness float64
	StopAtTarget  bool
}

type Result struct {
	Best             Individual
	BestByGeneration []float64
	Diagnostics      []model.GenerationDiagnostics
	Generations      int
}

// Trainer runs the generational evaluate/rank/select/reproduce loop.
// Individuals own value-semantic parameter copies, and every individual
// draws randomness from a sub-stream derived from (generation, slot), so
// results are independent of evaluation order and worker count.
type Trainer struct {
	cfg    Config
	source *rng.Source
}

func NewTrainer(cfg Config) (*Trainer, error) {
	if cfg.Fitness == nil {
		return nil, fmt.Errorf("fitness function is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.EliteCount <= 0 || cfg.EliteCount >= cfg.PopulationSize {
		return nil, fmt.Errorf("elite count must be in [1, population size)")
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Trainer{
		cfg:    cfg,
		source: rng.New(cfg.Seed),
	}, nil
}

// Run executes the search and returns the best individual found. A fitness
// error aborts the current generation and propagates; cancellation is
// honored at generation boundaries only, never mid-evaluation.
func (tr *Trainer) Run(ctx context.Context) (Result, error) {
	population := make([]Individual, tr.cfg.PopulationSize)
	for slot := range population {
		params, err := net.RandomParameters(tr.cfg.Topology, tr.source.Derive(0, uint64(slot)))
		if err != nil {
			return Result{}, err
		}
		population[slot] = Individual{Params: params, Generation: 0}
	}

	bestHistory := make([]float64, 0, tr.cfg.Generations)
	diagnostics := make([]model.GenerationDiagnostics, 0, tr.cfg.Generations)

	ran := 0
	for gen := 0; gen < tr.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		if err := tr.evaluate(ctx, population); err != nil {
			return Result{}, err
		}

		// Rank: fitness descending, construction order breaking ties so
		// reruns reproduce the same elite set.
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].Fitness > population[j].Fitness
		})

		ran = gen + 1
		bestHistory = append(bestHistory, population[0].Fitness)
		diagnostics = append(diagnostics, summarize(population, ran))

		if tr.cfg.StopAtTarget && population[0].Fitness >= tr.cfg.TargetFitness {
			break
		}
		if gen == tr.cfg.Generations-1 {
			break
		}

		if err := tr.reproduce(population, gen+1); err != nil {
			return Result{}, err
		}
	}

	best := population[0]
	best.Params = best.Params.Clone()
	return Result{
		Best:             best,
		BestByGeneration: bestHistory,
		Diagnostics:      diagnostics,
		Generations:      ran,
	}, nil
}

// reproduce keeps the top elites unmutated and refills the remaining slots
// with offspring mutated from the elites round-robin.
func (tr *Trainer) reproduce(population []Individual, generation int) error {
	elites := tr.cfg.EliteCount
	for slot := elites; slot < len(population); slot++ {
		parent := population[(slot-elites)%elites]
		child, err := Mutate(parent.Params, tr.cfg.MutationPower, tr.source.Derive(uint64(generation), uint64(slot)))
		if err != nil {
			return err
		}
		population[slot] = Individual{Params: child, Generation: generation}
	}
	return nil
}

func (tr *Trainer) evaluate(ctx context.Context, population []Individual) error {
	type job struct {
		idx int
	}
	type result struct {
		idx     int
		fitness float64
		err     error
	}

	jobs := make(chan job)
	results := make(chan result, len(population))

	workerCount := tr.cfg.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				fitness, err := tr.cfg.Fitness(ctx, population[j.idx].Params)
				results <- result{idx: j.idx, fitness: fitness, err: err}
			}
		}()
	}

	for i := range population {
		jobs <- job{idx: i}
	}
	close(jobs)

	wg.Wait()
	close(results)

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		population[res.idx].Fitness = res.fitness
	}
	return firstErr
}

func summarize(population []Individual, generation int) model.GenerationDiagnostics {
	total := 0.0
	minFitness := population[0].Fitness
	for _, ind := range population {
		total += ind.Fitness
		if ind.Fitness < minFitness {
			minFitness = ind.Fitness
		}
	}
	return model.GenerationDiagnostics{
		Generation:  generation,
		BestFitness: population[0].Fitness,
		MeanFitness: total / float64(len(population)),
		MinFitness:  minFitness,
	}
}
