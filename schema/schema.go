// Package schema has configs, models and global variables for all parts of debtsession.
package schema

import "time"

// UnitMetrics represents the structural metrics for a single code unit.
// All values are computed from a read-only codebase snapshot; the collector
// never mutates the source it measures.
type UnitMetrics struct {
	Lines            int     `json:"lines"`             // Number of source lines in the unit
	Complexity       int     `json:"complexity"`        // Decision-point count (branches, loops, boolean operators)
	FanIn            int     `json:"fan_in"`            // Number of units that import/reference this unit
	FanOut           int     `json:"fan_out"`           // Number of units this unit imports/references
	DuplicationRatio float64 `json:"duplication_ratio"` // Share of non-blank lines repeated within the unit (0-1)
}

// CodeUnit is an immutable per-unit snapshot produced by one collection run.
// A unit that could not be measured carries a non-empty Err marker and is
// excluded from scoring without aborting the rest of the run.
type CodeUnit struct {
	ID      string      `json:"id"`     // Path plus optional symbol, e.g. "sim/engine.py" or "sim/engine.py:Engine"
	Path    string      `json:"path"`   // Relative path within the snapshot
	Symbol  string      `json:"symbol,omitempty"` // Optional symbol name for sub-file units
	Metrics UnitMetrics `json:"metrics"`
	Err     string      `json:"err,omitempty"` // Collection error marker; set means metrics are unusable
}

// Hotspot is a scored, ranked reference to a CodeUnit. Hotspots are created
// by the scorer and consumed read-only; a new triage run supersedes the whole
// list rather than mutating entries. Scores are only comparable within one run.
type Hotspot struct {
	ID             string                `json:"id"`   // Matches the underlying CodeUnit ID
	Rank           int                   `json:"rank"` // 1-based position within the run
	DebtScore      float64               `json:"debt_score"`
	EffortEstimate float64               `json:"effort_estimate"` // Abstract effort points, monotone in lines and complexity
	Unit           CodeUnit              `json:"unit"`
	Breakdown      map[MetricKey]float64 `json:"breakdown,omitempty"` // Weighted contribution of each metric
}

// LedgerEntry records a single budget charge. The ledger is append-only.
type LedgerEntry struct {
	Phase     Phase     `json:"phase"`
	Cost      int       `json:"cost"`
	Timestamp time.Time `json:"timestamp"`
}

// Budget is the depletable resource governing one session. Remaining only
// decreases within a session; replenishment is allowed solely when a brand-new
// session starts. Conservation holds at all times:
// sum(ledger costs) + Remaining == TotalCapacity.
type Budget struct {
	TotalCapacity int           `json:"total_capacity"`
	Remaining     int           `json:"remaining"`
	Ledger        []LedgerEntry `json:"ledger"`
}

// Spent returns the total cost recorded in the ledger.
func (b Budget) Spent() int {
	var total int
	for _, e := range b.Ledger {
		total += e.Cost
	}
	return total
}

// Clone returns a deep copy of the budget, including the ledger.
func (b Budget) Clone() Budget {
	clone := b
	if b.Ledger != nil {
		clone.Ledger = make([]LedgerEntry, len(b.Ledger))
		copy(clone.Ledger, b.Ledger)
	}
	return clone
}

// PlanStep is one proposed extraction step within an ExtractionPlan.
type PlanStep struct {
	Description   string  `json:"description"`
	EstimatedCost int     `json:"estimated_cost"`
	Risk          RiskTag `json:"risk"`
	Done          bool    `json:"done"`
}

// ExtractionPlan proposes an ordered sequence of extraction steps for one
// hotspot. It is created during the plan phase and frozen once execution
// starts; changing course requires a new plan.
type ExtractionPlan struct {
	HotspotID string     `json:"hotspot_id"`
	Steps     []PlanStep `json:"steps"`
	CreatedAt time.Time  `json:"created_at"`
	Frozen    bool       `json:"frozen"` // Set when execution starts; steps may only be marked done afterwards
}

// Complete reports whether every step in the plan is done.
func (p *ExtractionPlan) Complete() bool {
	for _, s := range p.Steps {
		if !s.Done {
			return false
		}
	}
	return len(p.Steps) > 0
}

// DoneSteps returns the number of completed steps.
func (p *ExtractionPlan) DoneSteps() int {
	var n int
	for _, s := range p.Steps {
		if s.Done {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the plan.
func (p *ExtractionPlan) Clone() *ExtractionPlan {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Steps = make([]PlanStep, len(p.Steps))
	copy(clone.Steps, p.Steps)
	return &clone
}

// SessionRecord is the durable state of one refactoring session. Exactly one
// record is live at a time; every transition persists a fresh immutable
// snapshot so history stays auditable.
type SessionRecord struct {
	SessionID       string          `json:"session_id"`
	CurrentPhase    Phase           `json:"current_phase"`
	ActiveHotspotID string          `json:"active_hotspot_id,omitempty"` // Must reference the most recent triage result when set
	Hotspots        []Hotspot       `json:"hotspots,omitempty"`          // Most recent triage result
	Plan            *ExtractionPlan `json:"plan,omitempty"`
	Budget          Budget          `json:"budget"`
	Forced          bool            `json:"forced"` // Last checkpoint was an emergency checkpoint after exhaustion
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Clone returns a deep copy of the record, including hotspots, plan and ledger.
func (r SessionRecord) Clone() SessionRecord {
	clone := r
	clone.Budget = r.Budget.Clone()
	clone.Plan = r.Plan.Clone()
	if r.Hotspots != nil {
		clone.Hotspots = make([]Hotspot, len(r.Hotspots))
		copy(clone.Hotspots, r.Hotspots)
	}
	return clone
}

// FindHotspot returns the hotspot with the given ID from the most recent
// triage result, or false if it is not present.
func (r SessionRecord) FindHotspot(id string) (Hotspot, bool) {
	for _, h := range r.Hotspots {
		if h.ID == id {
			return h, true
		}
	}
	return Hotspot{}, false
}

// SessionSummary is a condensed view of one persisted snapshot, used by
// listing commands and exports.
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	Seq       int64     `json:"seq"`
	Phase     Phase     `json:"phase"`
	Remaining int       `json:"remaining"`
	Capacity  int       `json:"capacity"`
	Forced    bool      `json:"forced"`
	TakenAt   time.Time `json:"taken_at"`
}

// CommandResult is the structured outcome every operator-facing command
// reports. Budget exhaustion surfaces as ResultExhausted, which is a designed
// backpressure signal rather than a process failure.
type CommandResult struct {
	Status    ResultStatus `json:"status"`
	Phase     Phase        `json:"phase"`
	Remaining int          `json:"remaining_budget"`
	Message   string       `json:"message"`
}

// StoreStatus returns status information about the session store backend.
type StoreStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalSnapshots int       `json:"total_snapshots"`
	Sessions       int       `json:"sessions"`
	LastSnapshot   time.Time `json:"last_snapshot,omitempty"`
	TableSizeBytes int64     `json:"table_size_bytes,omitempty"`
}
