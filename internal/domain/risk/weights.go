package risk

import (
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
)

// Prior metric weights. They sum to 1.00 before boosting.
const (
	weightStress    = 0.30
	weightSleep     = 0.25
	weightWorkload  = 0.20
	weightMood      = 0.15
	weightNutrition = 0.10

	// DominantBoost is added to the single most-deviating metric's weight.
	// The boosted sum is 1.05 on purpose - the source behavior does not
	// renormalize after boosting and we keep that exactly.
	DominantBoost = 0.05
)

// Weights is the per-metric weight vector used by the score calculator.
type Weights struct {
	Stress    float64
	Sleep     float64
	Mood      float64
	Workload  float64
	Nutrition float64
}

// PriorWeights returns the fixed starting weights.
func PriorWeights() Weights {
	return Weights{
		Stress:    weightStress,
		Sleep:     weightSleep,
		Mood:      weightMood,
		Workload:  weightWorkload,
		Nutrition: weightNutrition,
	}
}

// Get returns the weight for a named metric.
func (w Weights) Get(metric behavior.Metric) float64 {
	switch metric {
	case behavior.MetricStress:
		return w.Stress
	case behavior.MetricSleep:
		return w.Sleep
	case behavior.MetricMood:
		return w.Mood
	case behavior.MetricWorkload:
		return w.Workload
	case behavior.MetricNutrition:
		return w.Nutrition
	default:
		return 0
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Stress + w.Sleep + w.Mood + w.Workload + w.Nutrition
}

// Boosted returns the prior weights with DominantBoost added to the metric
// that deviates most today. Exactly one metric is ever boosted; ties fall to
// Deviation.Dominant's fixed order.
func Boosted(dev Deviation) Weights {
	w := PriorWeights()
	switch dev.Dominant() {
	case behavior.MetricStress:
		w.Stress += DominantBoost
	case behavior.MetricSleep:
		w.Sleep += DominantBoost
	case behavior.MetricMood:
		w.Mood += DominantBoost
	case behavior.MetricWorkload:
		w.Workload += DominantBoost
	case behavior.MetricNutrition:
		w.Nutrition += DominantBoost
	}
	return w
}
