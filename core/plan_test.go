package core

import (
	"testing"
	"time"

	"github.com/huangsam/debtsession/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeHotspot is a test helper for building a hotspot with given metrics.
func makeHotspot(id string, m schema.UnitMetrics) schema.Hotspot {
	return schema.Hotspot{
		ID:             id,
		EffortEstimate: float64(m.Lines)*0.02 + float64(m.Complexity)*0.5,
		Unit:           schema.CodeUnit{ID: id, Path: id, Metrics: m},
	}
}

// TestBuildExtractionPlanSmallUnit verifies a small, tidy unit gets only the
// bookend steps: characterization tests and verification.
func TestBuildExtractionPlanSmallUnit(t *testing.T) {
	h := makeHotspot("tidy.go", schema.UnitMetrics{Lines: 50, Complexity: 2})

	plan := BuildExtractionPlan(h, time.Now())
	require.Len(t, plan.Steps, 2)
	assert.Contains(t, plan.Steps[0].Description, "characterization tests")
	assert.Equal(t, schema.RiskLow, plan.Steps[0].Risk)
	assert.Contains(t, plan.Steps[1].Description, "parity")
	assert.False(t, plan.Frozen)
	assert.Equal(t, "tidy.go", plan.HotspotID)
}

// TestBuildExtractionPlanConditionalSteps verifies each metric threshold adds
// its dedicated step.
func TestBuildExtractionPlanConditionalSteps(t *testing.T) {
	tests := []struct {
		name     string
		metrics  schema.UnitMetrics
		expected string
		risk     schema.RiskTag
	}{
		{
			name:     "complex unit gets branch extraction",
			metrics:  schema.UnitMetrics{Lines: 50, Complexity: 15},
			expected: "decision-heavy branches",
			risk:     schema.RiskHigh,
		},
		{
			name:     "duplicated unit gets deduplication",
			metrics:  schema.UnitMetrics{Lines: 50, Complexity: 2, DuplicationRatio: 0.2},
			expected: "Deduplicate",
			risk:     schema.RiskMedium,
		},
		{
			name:     "wide fan-out gets dependency inversion",
			metrics:  schema.UnitMetrics{Lines: 50, Complexity: 2, FanOut: 8},
			expected: "Invert outbound dependencies",
			risk:     schema.RiskMedium,
		},
		{
			name:     "large unit gets a split",
			metrics:  schema.UnitMetrics{Lines: 600, Complexity: 2},
			expected: "cohesive modules",
			risk:     schema.RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := BuildExtractionPlan(makeHotspot("unit.go", tt.metrics), time.Now())
			require.Len(t, plan.Steps, 3)

			middle := plan.Steps[1]
			assert.Contains(t, middle.Description, tt.expected)
			assert.Equal(t, tt.risk, middle.Risk)
		})
	}
}

// TestBuildExtractionPlanWorstCase verifies a unit over every threshold gets
// the full step sequence with positive costs.
func TestBuildExtractionPlanWorstCase(t *testing.T) {
	h := makeHotspot("monster.go", schema.UnitMetrics{
		Lines:            800,
		Complexity:       40,
		FanOut:           9,
		DuplicationRatio: 0.4,
	})

	plan := BuildExtractionPlan(h, time.Now())
	require.Len(t, plan.Steps, 6)
	for _, step := range plan.Steps {
		assert.GreaterOrEqual(t, step.EstimatedCost, 1)
		assert.False(t, step.Done)
	}
	assert.False(t, plan.Complete())
}

// TestBuildExtractionPlanDeterministic verifies the same hotspot always
// yields the same plan.
func TestBuildExtractionPlanDeterministic(t *testing.T) {
	h := makeHotspot("engine.go", schema.UnitMetrics{Lines: 400, Complexity: 20})
	now := time.Now()

	first := BuildExtractionPlan(h, now)
	second := BuildExtractionPlan(h, now)
	assert.Equal(t, first, second)
}
