package schema

// Custom string types for type safety.
type (
	// Phase represents a workflow phase within a session.
	Phase string

	// MetricKey represents keys used in scoring weights and breakdowns.
	MetricKey string

	// RiskTag represents the risk class of a plan step.
	RiskTag string

	// OutputMode represents the format of the output.
	OutputMode string

	// ResultStatus represents the outcome class of a command.
	ResultStatus string

	// StoreBackend represents the database backend for session storage.
	StoreBackend string
)

// All workflow phases.
const (
	PhaseNew        Phase = "new"
	PhaseTriage     Phase = "triage"
	PhasePlan       Phase = "plan"
	PhaseExecute    Phase = "execute"
	PhaseCheckpoint Phase = "checkpoint"
	PhaseDone       Phase = "done"
)

// Metric keys used in scoring weights and breakdowns.
const (
	MetricLines       MetricKey = "lines"
	MetricComplexity  MetricKey = "complexity"
	MetricFanIn       MetricKey = "fan_in"
	MetricFanOut      MetricKey = "fan_out"
	MetricDuplication MetricKey = "duplication"
)

// Risk tags for plan steps.
const (
	RiskLow    RiskTag = "low"
	RiskMedium RiskTag = "medium"
	RiskHigh   RiskTag = "high"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// All command result statuses.
const (
	ResultOK        ResultStatus = "ok"
	ResultError     ResultStatus = "error"
	ResultExhausted ResultStatus = "budget-exhausted"
)

// All store backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite" // default
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	MemoryBackend     StoreBackend = "memory"
)

// AllPhases lists the phases in their forward order.
var AllPhases = []Phase{PhaseNew, PhaseTriage, PhasePlan, PhaseExecute, PhaseCheckpoint, PhaseDone}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	MemoryBackend:     {},
}

// ValidPhases lists all valid phases.
var ValidPhases = map[Phase]struct{}{
	PhaseNew:        {},
	PhaseTriage:     {},
	PhasePlan:       {},
	PhaseExecute:    {},
	PhaseCheckpoint: {},
	PhaseDone:       {},
}

// GetDefaultWeights returns the default scoring weight map. Weights are equal
// across the recognized metrics except fan-in, which informs prioritization
// displays but not the composite score by default.
func GetDefaultWeights() map[MetricKey]float64 {
	return map[MetricKey]float64{
		MetricLines:       0.25,
		MetricComplexity:  0.25,
		MetricFanIn:       0.00,
		MetricFanOut:      0.25,
		MetricDuplication: 0.25,
	}
}

// GetDefaultPhaseCosts returns the default per-phase cost table. Entering a
// phase charges its cost; the new phase is never entered via a transition and
// done closes the ledger for free.
func GetDefaultPhaseCosts() map[Phase]int {
	return map[Phase]int{
		PhaseNew:        1,
		PhaseTriage:     3,
		PhasePlan:       3,
		PhaseExecute:    6,
		PhaseCheckpoint: 1,
		PhaseDone:       0,
	}
}
