package contract

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/debtsession/schema"
)

// Default values for configuration.
const (
	DefaultCapacity    = 100
	DefaultTopN        = 0 // unbounded
	MaxTopN            = 1000
	DefaultPrecision   = 1
	DefaultUnitTimeout = 5 * time.Second
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// WeightsRawInput holds custom scoring weights from the YAML config file.
// Only fields that might be customized are included; pointers distinguish
// "unset" from an explicit zero.
type WeightsRawInput struct {
	Lines       *float64 `mapstructure:"lines"`
	Complexity  *float64 `mapstructure:"complexity"`
	FanIn       *float64 `mapstructure:"fan_in"`
	FanOut      *float64 `mapstructure:"fan_out"`
	Duplication *float64 `mapstructure:"duplication"`
}

// PhaseCostsRawInput holds per-phase cost overrides from the YAML config file.
type PhaseCostsRawInput struct {
	New        *int `mapstructure:"new"`
	Triage     *int `mapstructure:"triage"`
	Plan       *int `mapstructure:"plan"`
	Execute    *int `mapstructure:"execute"`
	Checkpoint *int `mapstructure:"checkpoint"`
	Done       *int `mapstructure:"done"`
}

// Config holds the runtime configuration for the engine.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath    string
	UnitsFile   string // Pre-extracted unit list; bypasses filesystem metric computation
	Excludes    []string
	Workers     int
	UnitTimeout time.Duration
	TopN        int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	Capacity int // Starting budget for new sessions

	StoreBackend   schema.StoreBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// Weights is the final scoring weight map, computed from defaults plus
	// custom overrides.
	Weights map[schema.MetricKey]float64

	// PhaseCosts is the final per-phase cost table, computed from defaults
	// plus custom overrides.
	PhaseCosts map[schema.Phase]int

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	UnitsFile      string `mapstructure:"units-file"`
	Exclude        string `mapstructure:"exclude"`
	Workers        int    `mapstructure:"workers"`
	UnitTimeout    string `mapstructure:"unit-timeout"`
	TopN           int    `mapstructure:"top-n"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Capacity       int    `mapstructure:"capacity"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Color          string `mapstructure:"color"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`

	// --- Phase cost overrides from config file ---
	PhaseCosts PhaseCostsRawInput `mapstructure:"phase-costs"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Weights != nil {
		clone.Weights = make(map[schema.MetricKey]float64)
		maps.Copy(clone.Weights, c.Weights)
	}
	if c.PhaseCosts != nil {
		clone.PhaseCosts = make(map[schema.Phase]int)
		maps.Copy(clone.PhaseCosts, c.PhaseCosts)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := processPhaseCosts(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs handles the scalar options that need only range and
// enum checks.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.RepoPath = input.RepoPathStr
	cfg.UnitsFile = input.UnitsFile
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	if input.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.TopN < 0 || input.TopN > MaxTopN {
		return fmt.Errorf("top-n must be between 0 and %d, got %d", MaxTopN, input.TopN)
	}
	cfg.TopN = input.TopN

	if input.Precision < 0 || input.Precision > 10 {
		return fmt.Errorf("precision must be between 0 and 10, got %d", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", input.Capacity)
	}
	cfg.Capacity = input.Capacity

	output := schema.OutputMode(input.Output)
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode: %s (expected text, json, csv or parquet)", input.Output)
	}
	cfg.Output = output

	backend := schema.StoreBackend(input.StoreBackend)
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend: %s (expected sqlite, mysql, postgresql or memory)", input.StoreBackend)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = input.StoreDBConnect

	if input.UnitTimeout != "" {
		timeout, err := time.ParseDuration(input.UnitTimeout)
		if err != nil {
			return fmt.Errorf("invalid unit-timeout: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("unit-timeout must be positive, got %s", timeout)
		}
		cfg.UnitTimeout = timeout
	} else {
		cfg.UnitTimeout = DefaultUnitTimeout
	}

	if input.Exclude != "" {
		for _, part := range strings.Split(input.Exclude, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				cfg.Excludes = append(cfg.Excludes, part)
			}
		}
	}

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color option: %w", err)
	}
	cfg.UseColors = useColors

	return nil
}

// processWeights merges default scoring weights with config file overrides.
// Weights must be non-negative and sum to a positive value.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultWeights()

	overrides := map[schema.MetricKey]*float64{
		schema.MetricLines:       input.Weights.Lines,
		schema.MetricComplexity:  input.Weights.Complexity,
		schema.MetricFanIn:       input.Weights.FanIn,
		schema.MetricFanOut:      input.Weights.FanOut,
		schema.MetricDuplication: input.Weights.Duplication,
	}
	for key, value := range overrides {
		if value == nil {
			continue
		}
		if *value < 0 {
			return fmt.Errorf("weight for %s must be non-negative, got %g", key, *value)
		}
		weights[key] = *value
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return fmt.Errorf("scoring weights must sum to a positive value")
	}

	cfg.Weights = weights
	return nil
}

// processPhaseCosts merges the default phase cost table with config file
// overrides. Costs must be non-negative.
func processPhaseCosts(cfg *Config, input *ConfigRawInput) error {
	costs := schema.GetDefaultPhaseCosts()

	overrides := map[schema.Phase]*int{
		schema.PhaseNew:        input.PhaseCosts.New,
		schema.PhaseTriage:     input.PhaseCosts.Triage,
		schema.PhasePlan:       input.PhaseCosts.Plan,
		schema.PhaseExecute:    input.PhaseCosts.Execute,
		schema.PhaseCheckpoint: input.PhaseCosts.Checkpoint,
		schema.PhaseDone:       input.PhaseCosts.Done,
	}
	for phase, value := range overrides {
		if value == nil {
			continue
		}
		if *value < 0 {
			return fmt.Errorf("phase cost for %s must be non-negative, got %d", phase, *value)
		}
		costs[phase] = *value
	}

	cfg.PhaseCosts = costs
	return nil
}
