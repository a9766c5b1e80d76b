package core

import (
	"errors"
	"testing"
	"time"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/internal/sessionstore"
	"github.com/huangsam/debtsession/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// machineConfig returns a config suitable for driving the machine in tests.
func machineConfig(capacity int) *contract.Config {
	return &contract.Config{
		Capacity:   capacity,
		PhaseCosts: schema.GetDefaultPhaseCosts(),
		Weights:    schema.GetDefaultWeights(),
		Workers:    1,
	}
}

// brokenStore fails every append after a configurable number of successes.
type brokenStore struct {
	*sessionstore.MemoryStore
	failAfter int
	appends   int
}

func (s *brokenStore) Append(rec schema.SessionRecord) error {
	if s.appends >= s.failAfter {
		return errors.New("disk full")
	}
	s.appends++
	return s.MemoryStore.Append(rec)
}

// TestNewMachinePersistsInitialSnapshot verifies a new session starts in the
// new phase at full capacity and is immediately recoverable from the store.
func TestNewMachinePersistsInitialSnapshot(t *testing.T) {
	store := sessionstore.NewMemoryStore()
	m, err := NewMachine(machineConfig(10), store)
	require.NoError(t, err)

	record := m.Record()
	assert.Equal(t, schema.PhaseNew, record.CurrentPhase)
	assert.Equal(t, 10, record.Budget.Remaining)
	assert.NotEmpty(t, record.SessionID)

	stored, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, record.SessionID, stored.SessionID)
}

// TestTransitionChargesAndPersists verifies the happy path: edge validated,
// cost charged, snapshot persisted.
func TestTransitionChargesAndPersists(t *testing.T) {
	store := sessionstore.NewMemoryStore()
	m, err := NewMachine(machineConfig(10), store)
	require.NoError(t, err)

	record, err := m.Transition(schema.PhaseTriage, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.PhaseTriage, record.CurrentPhase)
	assert.Equal(t, 7, record.Budget.Remaining)
	require.Len(t, record.Budget.Ledger, 1)

	stored, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, schema.PhaseTriage, stored.CurrentPhase)
	assert.Equal(t, 7, stored.Budget.Remaining)
}

// TestTransitionInvalidEdge verifies illegal edges are refused without
// mutation.
func TestTransitionInvalidEdge(t *testing.T) {
	tests := []struct {
		name string
		to   schema.Phase
	}{
		{name: "new to plan", to: schema.PhasePlan},
		{name: "new to execute", to: schema.PhaseExecute},
		{name: "new to done", to: schema.PhaseDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := sessionstore.NewMemoryStore()
			m, err := NewMachine(machineConfig(10), store)
			require.NoError(t, err)

			record, err := m.Transition(tt.to, nil)
			var invalid *schema.InvalidTransitionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, schema.PhaseNew, record.CurrentPhase)
			assert.Equal(t, 10, record.Budget.Remaining)
		})
	}
}

// TestTransitionExhaustionForcesCheckpoint walks the canonical scenario: a
// capacity of 10 covers triage (3) and plan (3) but not execute (6). The
// refused execute turns into an uncharged emergency checkpoint.
func TestTransitionExhaustionForcesCheckpoint(t *testing.T) {
	store := sessionstore.NewMemoryStore()
	cfg := machineConfig(10)
	m, err := NewMachine(cfg, store)
	require.NoError(t, err)

	_, err = m.Transition(schema.PhaseTriage, nil)
	require.NoError(t, err)
	record, err := m.Transition(schema.PhasePlan, nil)
	require.NoError(t, err)
	require.Equal(t, 4, record.Budget.Remaining)

	record, err = m.Transition(schema.PhaseExecute, nil)
	var exhausted *schema.BudgetExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, schema.PhaseExecute, exhausted.Requested)
	assert.Equal(t, 6, exhausted.Cost)
	assert.Equal(t, 4, exhausted.Remaining)

	// The emergency checkpoint is persisted but never charged
	assert.Equal(t, schema.PhaseCheckpoint, record.CurrentPhase)
	assert.True(t, record.Forced)
	assert.Equal(t, 4, record.Budget.Remaining)

	stored, err := store.Latest()
	require.NoError(t, err)
	assert.True(t, stored.Forced)
	assert.Equal(t, 4, stored.Budget.Remaining)

	// Cheaper work can continue from the forced checkpoint
	record, err = m.Transition(schema.PhasePlan, nil)
	require.NoError(t, err)
	assert.False(t, record.Forced)
	assert.Equal(t, 1, record.Budget.Remaining)
}

// TestTransitionDoneRequiresCompletePlan verifies the done guard.
func TestTransitionDoneRequiresCompletePlan(t *testing.T) {
	store := sessionstore.NewMemoryStore()
	m, err := NewMachine(machineConfig(30), store)
	require.NoError(t, err)

	_, err = m.Transition(schema.PhaseTriage, nil)
	require.NoError(t, err)
	_, err = m.Transition(schema.PhasePlan, func(r *schema.SessionRecord) {
		r.Plan = &schema.ExtractionPlan{
			HotspotID: "engine.go",
			Steps:     []schema.PlanStep{{Description: "extract"}, {Description: "verify"}},
			CreatedAt: time.Now(),
		}
	})
	require.NoError(t, err)
	_, err = m.Transition(schema.PhaseCheckpoint, nil)
	require.NoError(t, err)

	// Incomplete plan blocks done
	_, err = m.Transition(schema.PhaseDone, nil)
	assert.ErrorIs(t, err, schema.ErrPlanIncomplete)

	// Complete the plan through an execute pass, then finish
	_, err = m.Transition(schema.PhaseExecute, func(r *schema.SessionRecord) {
		r.Plan.Frozen = true
		for i := range r.Plan.Steps {
			r.Plan.Steps[i].Done = true
		}
	})
	require.NoError(t, err)
	_, err = m.Transition(schema.PhaseCheckpoint, nil)
	require.NoError(t, err)
	record, err := m.Transition(schema.PhaseDone, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.PhaseDone, record.CurrentPhase)
	assert.Nil(t, record.Plan)
}

// TestTransitionAtomicOnStoreFailure verifies a failed append leaves both the
// machine and the budget in their last-known-good state.
func TestTransitionAtomicOnStoreFailure(t *testing.T) {
	store := &brokenStore{MemoryStore: sessionstore.NewMemoryStore(), failAfter: 1}
	m, err := NewMachine(machineConfig(10), store)
	require.NoError(t, err)

	record, err := m.Transition(schema.PhaseTriage, nil)
	var persistence *schema.PersistenceError
	require.ErrorAs(t, err, &persistence)

	// No charge, no phase change
	assert.Equal(t, schema.PhaseNew, record.CurrentPhase)
	assert.Equal(t, 10, record.Budget.Remaining)
	assert.Empty(t, record.Budget.Ledger)

	stored, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, schema.PhaseNew, stored.CurrentPhase)
}

// TestResumeMachineIdempotent verifies resuming twice without intervening
// work reconstructs the identical record.
func TestResumeMachineIdempotent(t *testing.T) {
	store := sessionstore.NewMemoryStore()
	cfg := machineConfig(10)
	m, err := NewMachine(cfg, store)
	require.NoError(t, err)
	_, err = m.Transition(schema.PhaseTriage, nil)
	require.NoError(t, err)
	_, err = m.Transition(schema.PhaseCheckpoint, nil)
	require.NoError(t, err)

	first, err := ResumeMachine(cfg, store)
	require.NoError(t, err)
	second, err := ResumeMachine(cfg, store)
	require.NoError(t, err)

	assert.Equal(t, first.Record(), second.Record())
	assert.Equal(t, schema.PhaseCheckpoint, first.Record().CurrentPhase)
	assert.Equal(t, 6, first.Record().Budget.Remaining)
}

// TestResumeMachineEdgeCases verifies resume failures: no store contents and
// a session that already finished.
func TestResumeMachineEdgeCases(t *testing.T) {
	cfg := machineConfig(10)

	t.Run("empty store", func(t *testing.T) {
		store := sessionstore.NewMemoryStore()
		_, err := ResumeMachine(cfg, store)
		assert.ErrorIs(t, err, schema.ErrNoSession)
	})

	t.Run("finished session", func(t *testing.T) {
		store := sessionstore.NewMemoryStore()
		require.NoError(t, store.Append(schema.SessionRecord{
			SessionID:    "done-session",
			CurrentPhase: schema.PhaseDone,
			Budget:       schema.Budget{TotalCapacity: 10, Remaining: 2},
		}))
		_, err := ResumeMachine(cfg, store)
		assert.ErrorIs(t, err, schema.ErrNoSession)
	})
}

// TestTransitionDropsPlanOutsidePlanPhases verifies the live record only
// carries a plan in the phases where one may exist.
func TestTransitionDropsPlanOutsidePlanPhases(t *testing.T) {
	store := sessionstore.NewMemoryStore()
	m, err := NewMachine(machineConfig(30), store)
	require.NoError(t, err)

	_, err = m.Transition(schema.PhaseTriage, nil)
	require.NoError(t, err)
	record, err := m.Transition(schema.PhasePlan, func(r *schema.SessionRecord) {
		r.Plan = &schema.ExtractionPlan{HotspotID: "engine.go", Steps: []schema.PlanStep{{Description: "x"}}}
	})
	require.NoError(t, err)
	require.NotNil(t, record.Plan)

	record, err = m.Transition(schema.PhaseCheckpoint, nil)
	require.NoError(t, err)
	assert.NotNil(t, record.Plan, "checkpoint keeps the plan")
}
