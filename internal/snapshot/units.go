package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
)

// UnitsSnapshot is a pre-extracted unit list supplied by the host, bypassing
// filesystem metric computation entirely. The file is a JSON array of
// schema.CodeUnit objects with metrics already populated.
type UnitsSnapshot struct {
	units map[string]schema.UnitMetrics
	order []string
}

var _ contract.Snapshot = &UnitsSnapshot{} // Compile-time check

// NewUnitsSnapshot loads a unit list file and validates its entries.
func NewUnitsSnapshot(path string) (*UnitsSnapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read units file %q: %w", path, err)
	}

	var parsed []schema.CodeUnit
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("cannot parse units file %q: %w", path, err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("units file %q contains no units", path)
	}

	units := make(map[string]schema.UnitMetrics, len(parsed))
	order := make([]string, 0, len(parsed))
	for i, u := range parsed {
		if u.ID == "" {
			return nil, fmt.Errorf("units file %q: entry %d has no id", path, i)
		}
		if _, dup := units[u.ID]; dup {
			return nil, fmt.Errorf("units file %q: duplicate unit id %q", path, u.ID)
		}
		units[u.ID] = u.Metrics
		order = append(order, u.ID)
	}
	sort.Strings(order)

	return &UnitsSnapshot{units: units, order: order}, nil
}

// List returns the sorted unit identifiers.
func (s *UnitsSnapshot) List(_ context.Context) ([]string, error) {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

// Measure returns the stored metrics for one unit.
func (s *UnitsSnapshot) Measure(_ context.Context, id string) (schema.UnitMetrics, error) {
	metrics, ok := s.units[id]
	if !ok {
		return schema.UnitMetrics{}, fmt.Errorf("unknown unit id %q", id)
	}
	return metrics, nil
}
