// Package algo has the scoring and ranking primitives for debt triage.
package algo

import (
	"sort"

	"github.com/huangsam/debtsession/schema"
)

// metricOrder fixes the accumulation order of the weighted contributions.
// Float addition is not associative, so summing in map iteration order would
// produce scores that differ in the last ULP between runs.
var metricOrder = []schema.MetricKey{
	schema.MetricLines,
	schema.MetricComplexity,
	schema.MetricFanIn,
	schema.MetricFanOut,
	schema.MetricDuplication,
}

// ScoreUnits combines unit metrics into a ranked hotspot list, descending by
// debt score with ties broken by larger line count then lexical ID order, so
// the output is a deterministic total order. Units carrying an error marker
// are excluded. Scores are min-max normalized over the current unit set and
// are therefore only comparable within one run.
//
// topN caps the result length; zero means unbounded. Returns
// schema.ErrEmptyInput when no usable units remain.
func ScoreUnits(units []schema.CodeUnit, weights map[schema.MetricKey]float64, topN int) ([]schema.Hotspot, error) {
	usable := make([]schema.CodeUnit, 0, len(units))
	for _, u := range units {
		if u.Err == "" {
			usable = append(usable, u)
		}
	}
	if len(usable) == 0 {
		return nil, schema.ErrEmptyInput
	}

	normLines := minMaxNormalizer(usable, func(m schema.UnitMetrics) float64 { return float64(m.Lines) })
	normComplexity := minMaxNormalizer(usable, func(m schema.UnitMetrics) float64 { return float64(m.Complexity) })
	normFanIn := minMaxNormalizer(usable, func(m schema.UnitMetrics) float64 { return float64(m.FanIn) })
	normFanOut := minMaxNormalizer(usable, func(m schema.UnitMetrics) float64 { return float64(m.FanOut) })

	hotspots := make([]schema.Hotspot, 0, len(usable))
	for _, u := range usable {
		m := u.Metrics
		breakdown := map[schema.MetricKey]float64{
			schema.MetricLines:      weights[schema.MetricLines] * normLines(float64(m.Lines)),
			schema.MetricComplexity: weights[schema.MetricComplexity] * normComplexity(float64(m.Complexity)),
			schema.MetricFanIn:      weights[schema.MetricFanIn] * normFanIn(float64(m.FanIn)),
			schema.MetricFanOut:     weights[schema.MetricFanOut] * normFanOut(float64(m.FanOut)),
			// Duplication is already a ratio in [0,1]; it is used raw.
			schema.MetricDuplication: weights[schema.MetricDuplication] * m.DuplicationRatio,
		}

		var raw float64
		for _, key := range metricOrder {
			raw += breakdown[key]
		}

		hotspots = append(hotspots, schema.Hotspot{
			ID:             u.ID,
			DebtScore:      raw * 100.0,
			EffortEstimate: EstimateEffort(m),
			Unit:           u,
			Breakdown:      scaleBreakdown(breakdown),
		})
	}

	return RankHotspots(hotspots, topN), nil
}

// EstimateEffort maps unit metrics to abstract remediation effort points.
// It is a monotone function of lines and complexity only: duplication and
// fan-in/out affect prioritization, not estimated effort.
func EstimateEffort(m schema.UnitMetrics) float64 {
	return float64(m.Lines)*0.02 + float64(m.Complexity)*0.5
}

// minMaxNormalizer returns a closure that maps a metric value into [0,1] via
// min-max scaling over the given unit set. A degenerate set (all values
// equal) normalizes to zero.
func minMaxNormalizer(units []schema.CodeUnit, extract func(schema.UnitMetrics) float64) func(float64) float64 {
	lo := extract(units[0].Metrics)
	hi := lo
	for _, u := range units[1:] {
		v := extract(u.Metrics)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	spread := hi - lo
	return func(v float64) float64 {
		if spread == 0 {
			return 0
		}
		return (v - lo) / spread
	}
}

// scaleBreakdown converts raw weighted contributions to percent contributions
// for display.
func scaleBreakdown(breakdown map[schema.MetricKey]float64) map[schema.MetricKey]float64 {
	scaled := make(map[schema.MetricKey]float64, len(breakdown))
	for k, v := range breakdown {
		scaled[k] = v * 100.0
	}
	return scaled
}

// RankHotspots sorts hotspots into the deterministic total order (score desc,
// lines desc, ID asc), assigns 1-based ranks and applies the topN cap.
// A limit of zero keeps the full list.
func RankHotspots(hotspots []schema.Hotspot, limit int) []schema.Hotspot {
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].DebtScore != hotspots[j].DebtScore {
			return hotspots[i].DebtScore > hotspots[j].DebtScore
		}
		if hotspots[i].Unit.Metrics.Lines != hotspots[j].Unit.Metrics.Lines {
			return hotspots[i].Unit.Metrics.Lines > hotspots[j].Unit.Metrics.Lines
		}
		return hotspots[i].ID < hotspots[j].ID
	})
	if limit > 0 && len(hotspots) > limit {
		hotspots = hotspots[:limit]
	}
	for i := range hotspots {
		hotspots[i].Rank = i + 1
	}
	return hotspots
}
