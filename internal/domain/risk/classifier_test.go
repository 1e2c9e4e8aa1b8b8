package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFlags_StrictThreshold(t *testing.T) {
	// Exactly 0.35 does not fire; the comparison is strict.
	dev := Deviation{Stress: 0.35, Sleep: 0.36, Mood: 0.34}
	flags := DetectFlags(dev)

	assert.False(t, flags.Has(FlagRisingStress))
	assert.True(t, flags.Has(FlagSleepDecline))
	assert.False(t, flags.Has(FlagMoodInstability))
}

func TestDetectFlags_Order(t *testing.T) {
	// All fire; the result comes back in metric declaration order, not by
	// deviation magnitude.
	dev := Deviation{Stress: 0.4, Sleep: 0.9, Mood: 0.5, Workload: 0.6, Nutrition: 0.99}
	flags := DetectFlags(dev)

	assert.Equal(t, Flags{
		FlagRisingStress,
		FlagSleepDecline,
		FlagWorkloadSpike,
		FlagMoodInstability,
		FlagNutritionDrop,
	}, flags)
}

func TestDetectFlags_None(t *testing.T) {
	assert.Empty(t, DetectFlags(Deviation{}))
}

func TestClassifyState(t *testing.T) {
	burnout := Flags{FlagRisingStress, FlagSleepDecline}
	overload := Flags{FlagMoodInstability, FlagWorkloadSpike}

	assert.Equal(t, StateStable, ClassifyState(nil, 0))
	assert.Equal(t, StateBurnoutEmerging, ClassifyState(burnout, 0))
	assert.Equal(t, StateEmotionalOverload, ClassifyState(overload, 0))
}

func TestClassifyState_LastMatchWins(t *testing.T) {
	// When both flag pairs fire, the overload check runs later and wins.
	all := Flags{FlagRisingStress, FlagSleepDecline, FlagMoodInstability, FlagWorkloadSpike}
	assert.Equal(t, StateEmotionalOverload, ClassifyState(all, 0))

	// Escalation runs last and overrides any flag pattern.
	assert.Equal(t, StateRapidEscalation, ClassifyState(all, 0.41))
	assert.Equal(t, StateRapidEscalation, ClassifyState(nil, 0.5))
}

func TestClassifyState_EscalationThresholdIsStrict(t *testing.T) {
	assert.Equal(t, StateStable, ClassifyState(nil, 0.4))
	assert.Equal(t, StateRapidEscalation, ClassifyState(nil, 0.400001))
}
