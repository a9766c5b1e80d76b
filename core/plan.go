package core

import (
	"fmt"
	"math"
	"time"

	"github.com/huangsam/debtsession/schema"
)

// Unit shape thresholds that trigger dedicated extraction steps.
const (
	complexUnitThreshold = 10
	largeUnitThreshold   = 300
	wideFanOutThreshold  = 5
	duplicationThreshold = 0.10
	minStepCost          = 1
)

// BuildExtractionPlan derives a deterministic sequence of proposed extraction
// steps from a hotspot's metrics. The engine only proposes and tracks the
// steps; carrying them out is operator action. Step costs are proportional to
// the hotspot's effort estimate and each step carries a risk tag.
func BuildExtractionPlan(h schema.Hotspot, now time.Time) *schema.ExtractionPlan {
	m := h.Unit.Metrics
	stepCost := func(share float64) int {
		cost := int(math.Round(h.EffortEstimate * share))
		if cost < minStepCost {
			cost = minStepCost
		}
		return cost
	}

	steps := []schema.PlanStep{{
		Description:   fmt.Sprintf("Add characterization tests around %s", h.ID),
		EstimatedCost: stepCost(0.2),
		Risk:          schema.RiskLow,
	}}

	if m.Complexity >= complexUnitThreshold {
		steps = append(steps, schema.PlanStep{
			Description:   "Extract decision-heavy branches into named helper functions",
			EstimatedCost: stepCost(0.3),
			Risk:          schema.RiskHigh,
		})
	}
	if m.DuplicationRatio >= duplicationThreshold {
		steps = append(steps, schema.PlanStep{
			Description:   "Deduplicate repeated blocks into shared utilities",
			EstimatedCost: stepCost(0.2),
			Risk:          schema.RiskMedium,
		})
	}
	if m.FanOut >= wideFanOutThreshold {
		steps = append(steps, schema.PlanStep{
			Description:   "Invert outbound dependencies behind a narrow interface",
			EstimatedCost: stepCost(0.2),
			Risk:          schema.RiskMedium,
		})
	}
	if m.Lines >= largeUnitThreshold {
		steps = append(steps, schema.PlanStep{
			Description:   fmt.Sprintf("Split %s into cohesive modules", h.ID),
			EstimatedCost: stepCost(0.3),
			Risk:          schema.RiskHigh,
		})
	}

	steps = append(steps, schema.PlanStep{
		Description:   "Verify behavior parity and remove superseded code",
		EstimatedCost: stepCost(0.1),
		Risk:          schema.RiskLow,
	})

	return &schema.ExtractionPlan{
		HotspotID: h.ID,
		Steps:     steps,
		CreatedAt: now,
	}
}
