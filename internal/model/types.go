package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// ParameterSet is the persistent form of one network's full parameter
// payload: thresholds, connection effects, and the IO neuron selection.
type ParameterSet struct {
	VersionedRecord
	ID              string  `json:"id"`
	NeuronCount     int     `json:"neuron_count"`
	ConnectionCount int     `json:"connection_count"`
	Thresholds      []int32 `json:"thresholds"`
	Effects         []int8  `json:"effects"`
	InputNeurons    []int   `json:"input_neurons"`
	OutputNeurons   []int   `json:"output_neurons"`
}

type Run struct {
	VersionedRecord
	ID              string  `json:"id"`
	Scape           string  `json:"scape"`
	Seed            uint64  `json:"seed"`
	NeuronCount     int     `json:"neuron_count"`
	ConnectionCount int     `json:"connection_count"`
	PopulationSize  int     `json:"population_size"`
	EliteCount      int     `json:"elite_count"`
	Generations     int     `json:"generations"`
	MutationPower   uint8   `json:"mutation_power"`
	BestFitness     float64 `json:"best_fitness"`
	BestParamsID    string  `json:"best_params_id"`
	CreatedAtUTC    string  `json:"created_at_utc"`
}

type GenerationDiagnostics struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	MinFitness  float64 `json:"min_fitness"`
}
