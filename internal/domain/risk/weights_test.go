package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorWeights_SumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, PriorWeights().Sum(), 1e-9)
}

func TestBoosted_AddsExactlyOneBoost(t *testing.T) {
	dev := Deviation{Sleep: 0.6, Stress: 0.2}
	w := Boosted(dev)

	assert.InDelta(t, 0.30, w.Stress, 1e-9)
	assert.InDelta(t, 0.25+DominantBoost, w.Sleep, 1e-9)
	assert.InDelta(t, 1.05, w.Sum(), 1e-9, "boosted weights are not renormalized")
}

func TestBoosted_AllZeroDeviationsBoostStress(t *testing.T) {
	// A perfectly on-baseline day still boosts one metric; the tie falls to
	// stress as the first metric in order.
	w := Boosted(Deviation{})
	assert.InDelta(t, 0.30+DominantBoost, w.Stress, 1e-9)
	assert.InDelta(t, 1.05, w.Sum(), 1e-9)
}
