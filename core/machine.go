package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
)

// transitionGraph defines the legal edges of the workflow. Checkpoint may
// continue back into plan or execute, or close out into done; triage, plan
// and execute may always pause into a checkpoint.
var transitionGraph = map[schema.Phase][]schema.Phase{
	schema.PhaseNew:        {schema.PhaseTriage},
	schema.PhaseTriage:     {schema.PhasePlan, schema.PhaseCheckpoint},
	schema.PhasePlan:       {schema.PhaseExecute, schema.PhaseCheckpoint},
	schema.PhaseExecute:    {schema.PhaseCheckpoint},
	schema.PhaseCheckpoint: {schema.PhasePlan, schema.PhaseExecute, schema.PhaseDone},
	schema.PhaseDone:       {},
}

// phasesWithPlan lists the phases during which an extraction plan may exist.
var phasesWithPlan = map[schema.Phase]struct{}{
	schema.PhasePlan:       {},
	schema.PhaseExecute:    {},
	schema.PhaseCheckpoint: {},
}

// Machine sequences one session through the workflow phases, gated by the
// budget tracker and persisted through the session store on every transition.
// It is the store's only writer.
type Machine struct {
	record  schema.SessionRecord
	tracker *BudgetTracker
	store   contract.SessionStore
	now     func() time.Time
}

// NewMachine creates a machine for a brand-new session and persists its
// initial snapshot.
func NewMachine(cfg *contract.Config, store contract.SessionStore) (*Machine, error) {
	m := &Machine{
		tracker: NewBudgetTracker(cfg.PhaseCosts),
		store:   store,
		now:     time.Now,
	}
	budget, err := m.tracker.Replenish(cfg.Capacity, schema.PhaseNew)
	if err != nil {
		return nil, err
	}
	now := m.now()
	m.record = schema.SessionRecord{
		SessionID:    uuid.NewString(),
		CurrentPhase: schema.PhaseNew,
		Budget:       budget,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Append(m.record); err != nil {
		return nil, &schema.PersistenceError{Op: "create session", Err: err}
	}
	return m, nil
}

// ResumeMachine reconstructs a machine purely from the last persisted
// snapshot and its budget; nothing is recomputed, so resuming twice without
// intervening work is a no-op. A session that already reached done cannot be
// resumed.
func ResumeMachine(cfg *contract.Config, store contract.SessionStore) (*Machine, error) {
	record, err := store.Latest()
	if err != nil {
		if errors.Is(err, schema.ErrNoSession) {
			return nil, err
		}
		return nil, &schema.PersistenceError{Op: "resume session", Err: err}
	}
	if record.CurrentPhase == schema.PhaseDone {
		return nil, schema.ErrNoSession
	}
	return &Machine{
		record:  record,
		tracker: RestoreBudgetTracker(record.Budget, cfg.PhaseCosts),
		store:   store,
		now:     time.Now,
	}, nil
}

// Record returns a snapshot copy of the live session record.
func (m *Machine) Record() schema.SessionRecord {
	return m.record.Clone()
}

// Transition moves the session to the target phase. The edge is validated,
// the target phase's cost is checked and charged, the optional apply function
// mutates the staged record (triage results, plan updates), and the snapshot
// is persisted. The whole step is atomic: any failure leaves the machine
// and the store in their last-known-good state.
//
// When the cost is not affordable the machine instead takes an emergency
// checkpoint (uncharged), persists it, and returns BudgetExhaustedError: the
// designed backpressure signal, not a fault.
func (m *Machine) Transition(to schema.Phase, apply func(*schema.SessionRecord)) (schema.SessionRecord, error) {
	if !edgeAllowed(m.record.CurrentPhase, to) {
		return m.record.Clone(), &schema.InvalidTransitionError{From: m.record.CurrentPhase, To: to}
	}
	if to == schema.PhaseDone && !m.planComplete() {
		return m.record.Clone(), schema.ErrPlanIncomplete
	}

	cost := m.tracker.EstimateCost(to)
	if !m.tracker.CanAfford(cost) {
		return m.forceCheckpoint(to, cost)
	}

	staged := m.tracker.clone()
	budget, err := staged.Charge(to, cost)
	if err != nil {
		// CanAfford was checked above; a failing charge means the tracker
		// state is inconsistent and must surface.
		return m.record.Clone(), err
	}

	record := m.record.Clone()
	record.CurrentPhase = to
	record.Budget = budget
	record.Forced = false
	record.UpdatedAt = m.now()
	if apply != nil {
		apply(&record)
	}
	if _, ok := phasesWithPlan[to]; !ok {
		record.Plan = nil
	}

	if err := m.store.Append(record); err != nil {
		return m.record.Clone(), &schema.PersistenceError{Op: "transition to " + string(to), Err: err}
	}

	m.record = record
	m.tracker = staged
	return record.Clone(), nil
}

// forceCheckpoint persists an uncharged emergency checkpoint after a refused
// transition, then reports exhaustion to the caller.
func (m *Machine) forceCheckpoint(requested schema.Phase, cost int) (schema.SessionRecord, error) {
	record := m.record.Clone()
	record.CurrentPhase = schema.PhaseCheckpoint
	record.Forced = true
	record.UpdatedAt = m.now()

	if err := m.store.Append(record); err != nil {
		return m.record.Clone(), &schema.PersistenceError{Op: "emergency checkpoint", Err: err}
	}

	m.record = record
	return record.Clone(), &schema.BudgetExhaustedError{
		Requested: requested,
		Cost:      cost,
		Remaining: m.tracker.Budget().Remaining,
	}
}

// planComplete reports whether a plan exists and all of its steps are done.
func (m *Machine) planComplete() bool {
	return m.record.Plan != nil && m.record.Plan.Complete()
}

// edgeAllowed reports whether the state graph contains the edge from -> to.
func edgeAllowed(from, to schema.Phase) bool {
	for _, next := range transitionGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}
