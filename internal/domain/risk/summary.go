package risk

// WeeklySummaryWindow is how many recent scores the weekly rollup averages.
const WeeklySummaryWindow = 7

// WeekClassification labels a week by its mean risk score.
type WeekClassification string

const (
	WeekStable   WeekClassification = "Stable Week"
	WeekModerate WeekClassification = "Moderate Risk Week"
	WeekHigh     WeekClassification = "High Risk Week"
)

// WeeklySummary is the rollup of up to the last WeeklySummaryWindow scores.
type WeeklySummary struct {
	Average        float64
	SampleCount    int
	Classification WeekClassification
}

// SummarizeWeek averages the given scores (newest first, at most
// WeeklySummaryWindow of them) and classifies the week with the same
// thresholds the per-day level mapping uses. Returns ok=false when there are
// no scores to summarize.
func SummarizeWeek(scores []float64) (WeeklySummary, bool) {
	if len(scores) == 0 {
		return WeeklySummary{}, false
	}
	if len(scores) > WeeklySummaryWindow {
		scores = scores[:WeeklySummaryWindow]
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	classification := WeekStable
	switch {
	case avg >= highThreshold:
		classification = WeekHigh
	case avg >= moderateThreshold:
		classification = WeekModerate
	}

	return WeeklySummary{
		Average:        avg,
		SampleCount:    len(scores),
		Classification: classification,
	}, true
}
