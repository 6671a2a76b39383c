package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"siarne/internal/config"
	"siarne/internal/storage"
	siapi "siarne/pkg/siarne"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "params":
		return runParams(ctx, args[1:])
	case "tick":
		return runTick(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func newClient(storeKind, dbPath string) (*siapi.Client, error) {
	return siapi.New(siapi.Options{StoreKind: storeKind, DBPath: dbPath})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "siarne.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "siarne.db", "sqlite database path")
	configPath := fs.String("config", "", "YAML run preset; flags override preset values")
	scapeName := fs.String("scape", "", "evaluation scape: sustain|pulse-echo")
	neurons := fs.Int("neurons", 0, "neuron count")
	connections := fs.Int("connections", 0, "connections per neuron")
	population := fs.Int("population", 0, "population size")
	elites := fs.Int("elites", 0, "elite count carried unchanged")
	generations := fs.Int("generations", 0, "generation count")
	power := fs.Uint("power", 0, "mutation power, 0-255")
	target := fs.Float64("target", 0, "stop once best fitness reaches this, 0 disables")
	workers := fs.Int("workers", 0, "parallel evaluation workers")
	seed := fs.Uint64("seed", 0, "run seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *power > 255 {
		return fmt.Errorf("power must be in [0, 255]")
	}

	req := siapi.RunRequest{}
	if *configPath != "" {
		preset, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		req = siapi.RunRequest{
			Scape:           preset.Scape,
			NeuronCount:     preset.NeuronCount,
			ConnectionCount: preset.ConnectionCount,
			InputNeurons:    preset.InputNeurons,
			OutputNeurons:   preset.OutputNeurons,
			Population:      preset.PopulationSize,
			EliteCount:      preset.EliteCount,
			Generations:     preset.Generations,
			MutationPower:   preset.MutationPower,
			TargetFitness:   preset.TargetFitness,
			Workers:         preset.Workers,
			Seed:            preset.Seed,
		}
	}
	if *scapeName != "" {
		req.Scape = *scapeName
	}
	if *neurons > 0 {
		req.NeuronCount = *neurons
	}
	if *connections > 0 {
		req.ConnectionCount = *connections
	}
	if *population > 0 {
		req.Population = *population
	}
	if *elites > 0 {
		req.EliteCount = *elites
	}
	if *generations > 0 {
		req.Generations = *generations
	}
	if *power > 0 {
		req.MutationPower = uint8(*power)
	}
	if *target > 0 {
		req.TargetFitness = target
	}
	if *workers > 0 {
		req.Workers = *workers
	}
	if *seed != 0 {
		req.Seed = *seed
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run=%s generations=%d best=%.4f params=%s\n",
		summary.RunID, summary.Generations, summary.BestFitness, summary.BestParamsID)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "siarne.db", "sqlite database path")
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return fmt.Errorf("limit must be > 0")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(runs) > *limit {
		runs = runs[len(runs)-*limit:]
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  scape=%s seed=%d pop=%d gens=%d best=%.4f\n",
			r.ID, r.CreatedAtUTC, r.Scape, r.Seed, r.PopulationSize, r.Generations, r.BestFitness)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "siarne.db", "sqlite database path")
	runID := fs.String("run", "", "run id, defaults to the most recent run")
	jsonOut := fs.Bool("json", false, "emit history as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}
	for i, best := range history {
		fmt.Printf("gen=%d best=%.4f\n", i+1, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "siarne.db", "sqlite database path")
	runID := fs.String("run", "", "run id, defaults to the most recent run")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnostics)
	}
	for _, d := range diagnostics {
		fmt.Printf("gen=%d best=%.4f mean=%.4f min=%.4f\n",
			d.Generation, d.BestFitness, d.MeanFitness, d.MinFitness)
	}
	return nil
}

func runParams(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("params", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "siarne.db", "sqlite database path")
	id := fs.String("id", "", "parameter set id, defaults to the most recent run's best")
	jsonOut := fs.Bool("json", false, "emit the full parameter payload as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	params, err := client.ParameterSet(ctx, *id)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(params)
	}
	fmt.Printf("id=%s neurons=%d connections=%d inputs=%v outputs=%v\n",
		params.ID, params.NeuronCount, params.ConnectionCount, params.InputNeurons, params.OutputNeurons)
	return nil
}

func runTick(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tick", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "siarne.db", "sqlite database path")
	id := fs.String("id", "", "parameter set id, defaults to the most recent run's best")
	ticks := fs.Int("ticks", 16, "ticks to replay")
	stimulus := fs.Int("stimulus", 1<<20, "input value applied on the first tick")
	jsonOut := fs.Bool("json", false, "emit the trace as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ticks <= 0 {
		return fmt.Errorf("ticks must be > 0")
	}
	if *stimulus < -1<<31 || *stimulus > 1<<31-1 {
		return fmt.Errorf("stimulus must fit in 32 bits")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	traces, err := client.Tick(ctx, siapi.TickRequest{
		ParamsID: *id,
		Ticks:    *ticks,
		Stimulus: int32(*stimulus),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(traces)
	}
	for _, trace := range traces {
		fmt.Printf("tick=%d values=%v fired=%v\n", trace.Tick, trace.Values, trace.Fired)
	}
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: siarnectl <init|run|runs|fitness|diagnostics|params|tick> [flags]", msg)
}
