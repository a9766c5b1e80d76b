package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
	"golang.org/x/sync/errgroup"
)

// CollectUnits measures every unit in the snapshot using a bounded worker
// pool. Measurement is an embarrassingly-parallel, side-effect-free map; the
// merged result is sorted by unit ID so the output is deterministic
// regardless of worker scheduling.
//
// A unit that cannot be measured within cfg.UnitTimeout, or that fails to
// read or parse, is recorded with an error marker and excluded from scoring
// later; it never aborts the rest of the run. Only an unreadable snapshot
// (List failing) fails the whole collection.
func CollectUnits(ctx context.Context, cfg *contract.Config, snap contract.Snapshot) ([]schema.CodeUnit, error) {
	ids, err := snap.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot is unreadable: %w", err)
	}
	if len(ids) == 0 {
		return []schema.CodeUnit{}, nil
	}

	units := make([]schema.CodeUnit, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, id := range ids {
		g.Go(func() error {
			units[i] = measureUnit(gctx, cfg, snap, id)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units, nil
}

// measureUnit measures a single unit under the per-unit timeout and converts
// any failure into an error marker on the unit.
func measureUnit(ctx context.Context, cfg *contract.Config, snap contract.Snapshot, id string) schema.CodeUnit {
	unitCtx, cancel := context.WithTimeout(ctx, cfg.UnitTimeout)
	defer cancel()

	unit := schema.CodeUnit{ID: id, Path: id}
	metrics, err := snap.Measure(unitCtx, id)
	if err != nil {
		cerr := &schema.CollectionError{UnitID: id, Err: err}
		unit.Err = cerr.Error()
		return unit
	}
	unit.Metrics = metrics
	return unit
}

// CollectionFailures returns the units that carry an error marker, in ID
// order, for operator-facing reporting.
func CollectionFailures(units []schema.CodeUnit) []schema.CodeUnit {
	var failed []schema.CodeUnit
	for _, u := range units {
		if u.Err != "" {
			failed = append(failed, u)
		}
	}
	return failed
}
