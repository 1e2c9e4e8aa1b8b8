package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRiskScore(t *testing.T) {
	w := PriorWeights()
	dev := Deviation{Stress: 0.5, Sleep: 0.4, Mood: 0.2, Workload: 0.3, Nutrition: 0.1}

	// 0.30*0.5 + 0.25*0.4 + 0.20*0.3 + 0.15*0.2 + 0.10*0.1 + 0.10*0.2
	score := ComputeRiskScore(w, dev, 0.2)
	assert.InDelta(t, 0.37, score, 1e-9)
}

func TestComputeRiskScore_Clamped(t *testing.T) {
	w := Boosted(Deviation{Stress: 1})
	dev := Deviation{Stress: 1, Sleep: 1, Mood: 1, Workload: 1, Nutrition: 1}

	score := ComputeRiskScore(w, dev, 1)
	assert.Equal(t, 1.0, score)

	score = ComputeRiskScore(w, Deviation{}, -1)
	assert.Equal(t, 0.0, score)
}

func TestLevelFor_Boundaries(t *testing.T) {
	assert.Equal(t, LevelLow, LevelFor(0))
	assert.Equal(t, LevelLow, LevelFor(0.399999))
	assert.Equal(t, LevelModerate, LevelFor(0.40), "0.40 exactly is Moderate")
	assert.Equal(t, LevelModerate, LevelFor(0.699999))
	assert.Equal(t, LevelHigh, LevelFor(0.70), "0.70 exactly is High")
	assert.Equal(t, LevelHigh, LevelFor(1))
}

func TestStabilityIndex(t *testing.T) {
	assert.Equal(t, 100, StabilityIndex(0))
	assert.Equal(t, 63, StabilityIndex(0.37))
	assert.Equal(t, 0, StabilityIndex(1))
}
