// Package core has core logic for session workflow, budgeting and triage.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/debtsession/core/algo"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/internal/outwriter"
	"github.com/huangsam/debtsession/internal/snapshot"
	"github.com/huangsam/debtsession/schema"
)

// ExecutorFunc defines the function signature for executing session commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, store contract.SessionStore) error

// ExecuteNewSession starts a brand-new session with a replenished budget and
// persists its initial snapshot. It serves as the entry point for 'new'.
func ExecuteNewSession(_ context.Context, cfg *contract.Config, store contract.SessionStore) error {
	m, err := NewMachine(cfg, store)
	if err != nil {
		return err
	}
	record := m.Record()
	return outwriter.WriteResult(schema.CommandResult{
		Status:    schema.ResultOK,
		Phase:     record.CurrentPhase,
		Remaining: record.Budget.Remaining,
		Message:   fmt.Sprintf("session %s started with capacity %d", record.SessionID, record.Budget.TotalCapacity),
	}, cfg)
}

// ExecuteTriage collects unit metrics from the codebase snapshot, scores them
// into a ranked hotspot list, and transitions the session into the triage
// phase with the new list installed. Scoring failures (such as an empty unit
// set) surface before any transition, so the session record stays untouched.
func ExecuteTriage(ctx context.Context, cfg *contract.Config, store contract.SessionStore) error {
	start := time.Now()
	m, err := ResumeMachine(cfg, store)
	if err != nil {
		return err
	}

	snap, err := snapshot.New(cfg)
	if err != nil {
		return err
	}
	units, err := CollectUnits(ctx, cfg, snap)
	if err != nil {
		return err
	}
	if failed := CollectionFailures(units); len(failed) > 0 {
		contract.LogWarn(fmt.Sprintf("%d of %d units failed collection and are excluded from scoring", len(failed), len(units)), nil)
	}

	hotspots, err := algo.ScoreUnits(units, cfg.Weights, cfg.TopN)
	if err != nil {
		return err
	}

	record, err := m.Transition(schema.PhaseTriage, func(r *schema.SessionRecord) {
		r.Hotspots = hotspots
		r.ActiveHotspotID = ""
	})
	if handled, herr := reportOutcome(record, err, cfg, fmt.Sprintf("triage ranked %d hotspots", len(hotspots))); handled || herr != nil {
		return herr
	}

	duration := time.Since(start)
	return outwriter.WriteHotspots(record.SessionID, record.Hotspots, cfg, duration)
}

// ExecutePlan creates an extraction plan for one hotspot from the most recent
// triage result and transitions the session into the plan phase.
func ExecutePlan(_ context.Context, cfg *contract.Config, store contract.SessionStore, hotspotID string) error {
	m, err := ResumeMachine(cfg, store)
	if err != nil {
		return err
	}

	hotspot, ok := m.Record().FindHotspot(hotspotID)
	if !ok {
		return fmt.Errorf("hotspot %q is not in the most recent triage result; run triage first", hotspotID)
	}
	plan := BuildExtractionPlan(hotspot, time.Now())

	record, err := m.Transition(schema.PhasePlan, func(r *schema.SessionRecord) {
		r.ActiveHotspotID = hotspot.ID
		r.Plan = plan
	})
	if handled, herr := reportOutcome(record, err, cfg, fmt.Sprintf("plan created for %s with %d steps", hotspot.ID, len(plan.Steps))); handled || herr != nil {
		return herr
	}

	return outwriter.WritePlan(record.Plan, cfg)
}

// ExecuteWork transitions into the execute phase, freezing the plan, and
// records the number of steps the operator completed this pass. The engine
// never performs code edits itself; step completion is operator confirmation.
func ExecuteWork(_ context.Context, cfg *contract.Config, store contract.SessionStore, stepsDone int) error {
	m, err := ResumeMachine(cfg, store)
	if err != nil {
		return err
	}

	current := m.Record()
	if current.Plan == nil {
		return fmt.Errorf("no extraction plan exists; run plan first")
	}
	if len(current.Plan.Steps) == 0 {
		return fmt.Errorf("extraction plan for %s has no steps", current.Plan.HotspotID)
	}
	if stepsDone < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", stepsDone)
	}

	record, err := m.Transition(schema.PhaseExecute, func(r *schema.SessionRecord) {
		r.Plan.Frozen = true
		remaining := stepsDone
		for i := range r.Plan.Steps {
			if remaining == 0 {
				break
			}
			if !r.Plan.Steps[i].Done {
				r.Plan.Steps[i].Done = true
				remaining--
			}
		}
	})
	msg := fmt.Sprintf("execute pass recorded; %d/%d steps complete",
		doneCount(record), planLen(record))
	if handled, herr := reportOutcome(record, err, cfg, msg); handled || herr != nil {
		return herr
	}

	return outwriter.WritePlan(record.Plan, cfg)
}

// ExecuteCheckpoint takes a voluntary checkpoint. With finish set it closes
// the session into done instead, once every plan step is complete. Entering
// done closes the budget ledger and archives the final snapshot.
func ExecuteCheckpoint(_ context.Context, cfg *contract.Config, store contract.SessionStore, finish bool) error {
	m, err := ResumeMachine(cfg, store)
	if err != nil {
		return err
	}

	target := schema.PhaseCheckpoint
	msg := "checkpoint persisted; session can be resumed losslessly"
	if finish {
		target = schema.PhaseDone
		msg = "session complete; record archived and ledger closed"
	}

	record, err := m.Transition(target, nil)
	if handled, herr := reportOutcome(record, err, cfg, msg); handled || herr != nil {
		return herr
	}
	return nil
}

// ExecuteResume re-enters the session at its last persisted phase. State is
// reconstructed purely from the stored snapshot; resuming twice in a row
// produces the identical record both times.
func ExecuteResume(_ context.Context, cfg *contract.Config, store contract.SessionStore) error {
	m, err := ResumeMachine(cfg, store)
	if err != nil {
		return err
	}
	record := m.Record()
	if err := outwriter.WriteResult(schema.CommandResult{
		Status:    schema.ResultOK,
		Phase:     record.CurrentPhase,
		Remaining: record.Budget.Remaining,
		Message:   fmt.Sprintf("resumed session %s at phase %s", record.SessionID, record.CurrentPhase),
	}, cfg); err != nil {
		return err
	}
	return outwriter.WriteStatus(record, cfg)
}

// ExecuteStatus reports the live session record without mutating anything.
// Unlike resume it also works for a session that already reached done.
func ExecuteStatus(_ context.Context, cfg *contract.Config, store contract.SessionStore) error {
	record, err := store.Latest()
	if err != nil {
		return err
	}
	return outwriter.WriteStatus(record, cfg)
}

// GetHotspotResults runs collection and scoring without touching any session
// state. It backs read-only surfaces such as the MCP tools.
func GetHotspotResults(ctx context.Context, cfg *contract.Config) ([]schema.Hotspot, error) {
	snap, err := snapshot.New(cfg)
	if err != nil {
		return nil, err
	}
	units, err := CollectUnits(ctx, cfg, snap)
	if err != nil {
		return nil, err
	}
	return algo.ScoreUnits(units, cfg.Weights, cfg.TopN)
}

// reportOutcome converts a transition outcome into operator-facing output.
// Budget exhaustion is reported as a distinct non-fatal status and the forced
// checkpoint record is shown; other errors propagate. The boolean tells the
// caller whether the outcome was terminal for the command.
func reportOutcome(record schema.SessionRecord, err error, cfg *contract.Config, okMsg string) (bool, error) {
	var exhausted *schema.BudgetExhaustedError
	if errors.As(err, &exhausted) {
		return true, outwriter.WriteResult(schema.CommandResult{
			Status:    schema.ResultExhausted,
			Phase:     record.CurrentPhase,
			Remaining: record.Budget.Remaining,
			Message:   exhausted.Error(),
		}, cfg)
	}
	if err != nil {
		return true, err
	}
	return false, outwriter.WriteResult(schema.CommandResult{
		Status:    schema.ResultOK,
		Phase:     record.CurrentPhase,
		Remaining: record.Budget.Remaining,
		Message:   okMsg,
	}, cfg)
}

func doneCount(r schema.SessionRecord) int {
	if r.Plan == nil {
		return 0
	}
	return r.Plan.DoneSteps()
}

func planLen(r schema.SessionRecord) int {
	if r.Plan == nil {
		return 0
	}
	return len(r.Plan.Steps)
}
