package risk

import (
	"math"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
)

// Deviation holds today's per-metric drift from the baseline, each value
// independently clamped to [0,1]. Direction matters per metric: rising
// stress/workload is bad, falling sleep/nutrition is bad, and mood counts
// as volatility in either direction. Improvement relative to baseline
// clamps to zero - it never subtracts from risk.
type Deviation struct {
	Stress    float64
	Sleep     float64
	Mood      float64
	Workload  float64
	Nutrition float64
}

// ComputeDeviation derives the clamped deviation vector for one day.
func ComputeDeviation(today behavior.NormalizedVector, baseline Baseline) Deviation {
	return Deviation{
		Stress:    behavior.Clamp(today.Stress - baseline.Stress),
		Sleep:     behavior.Clamp(baseline.Sleep - today.Sleep),
		Mood:      behavior.Clamp(math.Abs(today.Mood - baseline.Mood)),
		Workload:  behavior.Clamp(today.Workload - baseline.Workload),
		Nutrition: behavior.Clamp(baseline.Nutrition - today.Nutrition),
	}
}

// Get returns the deviation for a named metric.
func (d Deviation) Get(metric behavior.Metric) float64 {
	switch metric {
	case behavior.MetricStress:
		return d.Stress
	case behavior.MetricSleep:
		return d.Sleep
	case behavior.MetricMood:
		return d.Mood
	case behavior.MetricWorkload:
		return d.Workload
	case behavior.MetricNutrition:
		return d.Nutrition
	default:
		return 0
	}
}

// Dominant returns the metric with the largest deviation. Ties resolve by
// the fixed metric order (stress, sleep, workload, mood, nutrition), so the
// winner is deterministic for equal values.
func (d Deviation) Dominant() behavior.Metric {
	order := []behavior.Metric{
		behavior.MetricStress,
		behavior.MetricSleep,
		behavior.MetricWorkload,
		behavior.MetricMood,
		behavior.MetricNutrition,
	}
	winner := order[0]
	best := d.Get(winner)
	for _, m := range order[1:] {
		if v := d.Get(m); v > best {
			winner = m
			best = v
		}
	}
	return winner
}
