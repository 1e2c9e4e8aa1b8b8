package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeWeek(t *testing.T) {
	summary, ok := SummarizeWeek([]float64{0.1, 0.2, 0.3})
	require.True(t, ok)

	assert.InDelta(t, 0.2, summary.Average, 1e-9)
	assert.Equal(t, 3, summary.SampleCount)
	assert.Equal(t, WeekStable, summary.Classification)
}

func TestSummarizeWeek_Empty(t *testing.T) {
	_, ok := SummarizeWeek(nil)
	assert.False(t, ok)
}

func TestSummarizeWeek_CapsAtWindow(t *testing.T) {
	// Ten scores in, only the first seven (the newest) count.
	scores := []float64{0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.0, 0.0, 0.0}
	summary, ok := SummarizeWeek(scores)
	require.True(t, ok)

	assert.Equal(t, WeeklySummaryWindow, summary.SampleCount)
	assert.InDelta(t, 0.7, summary.Average, 1e-9)
}

func TestSummarizeWeek_Classification(t *testing.T) {
	summary, _ := SummarizeWeek([]float64{0.39})
	assert.Equal(t, WeekStable, summary.Classification)

	summary, _ = SummarizeWeek([]float64{0.40})
	assert.Equal(t, WeekModerate, summary.Classification)

	summary, _ = SummarizeWeek([]float64{0.70})
	assert.Equal(t, WeekHigh, summary.Classification)
}
