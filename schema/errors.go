package schema

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by the scorer when there are no usable code units.
// It is fatal to the triage call; the caller must supply units.
var ErrEmptyInput = errors.New("no code units to score")

// ErrNoSession is returned when no live session record exists in the store.
var ErrNoSession = errors.New("no live session found")

// ErrPlanIncomplete is returned when a session is asked to finish while its
// extraction plan still has open steps.
var ErrPlanIncomplete = errors.New("extraction plan has incomplete steps")

// CollectionError reports that a single unit could not be measured. It is
// non-fatal to a collection run: the unit is recorded with an error marker and
// excluded from scoring.
type CollectionError struct {
	UnitID string
	Err    error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collection failed for %s: %v", e.UnitID, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// InsufficientBudgetError is returned by the budget tracker when a charge
// exceeds the remaining budget. It is expected and recoverable; the state
// machine converts it into a forced checkpoint.
type InsufficientBudgetError struct {
	Phase     Phase
	Cost      int
	Remaining int
}

func (e *InsufficientBudgetError) Error() string {
	return fmt.Sprintf("insufficient budget for phase %s: cost %d exceeds remaining %d", e.Phase, e.Cost, e.Remaining)
}

// BudgetExhaustedError reports that a requested transition was refused and the
// machine was forced into a checkpoint instead. This is the designed
// backpressure mechanism, never an unhandled fault.
type BudgetExhaustedError struct {
	Requested Phase
	Cost      int
	Remaining int
}

func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf("budget exhausted: phase %s costs %d but only %d remains; forced checkpoint taken", e.Requested, e.Cost, e.Remaining)
}

// InvalidTransitionError reports an attempted edge that is not in the state
// graph. It is fatal to the call and leaves state unchanged.
type InvalidTransitionError struct {
	From Phase
	To   Phase
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// PersistenceError reports a session store I/O failure. It is fatal and
// surfaced to the operator; no partial write is committed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
