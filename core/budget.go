package core

import (
	"time"

	"github.com/huangsam/debtsession/schema"
)

// BudgetTracker owns the depletable budget for one session. Charge is the
// only mutator; every successful charge appends exactly one ledger entry.
// The tracker performs no I/O; persistence is the session store's job.
type BudgetTracker struct {
	budget schema.Budget
	costs  map[schema.Phase]int
	now    func() time.Time
}

// NewBudgetTracker creates an unfunded tracker. Replenish is the only way to
// fund it, which keeps the new-session gate in one place.
func NewBudgetTracker(costs map[schema.Phase]int) *BudgetTracker {
	return &BudgetTracker{
		costs: costs,
		now:   time.Now,
	}
}

// RestoreBudgetTracker rebuilds a tracker from a persisted budget snapshot.
// Nothing is recomputed; the ledger and remaining value carry over as stored.
func RestoreBudgetTracker(budget schema.Budget, costs map[schema.Phase]int) *BudgetTracker {
	return &BudgetTracker{
		budget: budget.Clone(),
		costs:  costs,
		now:    time.Now,
	}
}

// EstimateCost returns the fixed cost for entering a phase.
func (t *BudgetTracker) EstimateCost(phase schema.Phase) int {
	return t.costs[phase]
}

// CanAfford reports whether the remaining budget covers the given cost.
func (t *BudgetTracker) CanAfford(cost int) bool {
	return t.budget.Remaining >= cost
}

// Charge decrements the remaining budget and appends a ledger entry.
// Fails with InsufficientBudgetError without mutating anything when the cost
// is not affordable.
func (t *BudgetTracker) Charge(phase schema.Phase, cost int) (schema.Budget, error) {
	if !t.CanAfford(cost) {
		return t.budget.Clone(), &schema.InsufficientBudgetError{
			Phase:     phase,
			Cost:      cost,
			Remaining: t.budget.Remaining,
		}
	}
	t.budget.Remaining -= cost
	t.budget.Ledger = append(t.budget.Ledger, schema.LedgerEntry{
		Phase:     phase,
		Cost:      cost,
		Timestamp: t.now(),
	})
	return t.budget.Clone(), nil
}

// Replenish resets the budget to a new capacity. Permitted only when a
// brand-new session is starting; the prior ledger is dropped from the live
// budget because superseded session snapshots keep the archived copy.
func (t *BudgetTracker) Replenish(newCapacity int, current schema.Phase) (schema.Budget, error) {
	if current != schema.PhaseNew {
		return t.budget.Clone(), &schema.InvalidTransitionError{From: current, To: schema.PhaseNew}
	}
	t.budget = schema.Budget{TotalCapacity: newCapacity, Remaining: newCapacity}
	return t.budget.Clone(), nil
}

// Budget returns a snapshot copy of the current budget.
func (t *BudgetTracker) Budget() schema.Budget {
	return t.budget.Clone()
}

// clone returns an independent tracker used to stage a charge before a
// transition commits.
func (t *BudgetTracker) clone() *BudgetTracker {
	return &BudgetTracker{budget: t.budget.Clone(), costs: t.costs, now: t.now}
}
