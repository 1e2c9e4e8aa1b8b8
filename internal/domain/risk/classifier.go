package risk

import (
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
)

// flagThreshold is the strict cutoff a clamped deviation must exceed for its
// flag to fire. Equality does not fire the flag.
const flagThreshold = 0.35

// escalationThreshold is the stress velocity above which the state becomes
// Rapid Stress Escalation.
const escalationThreshold = 0.4

// Flag names a single threshold breach on one metric's deviation.
type Flag string

const (
	FlagRisingStress    Flag = "rising_stress"
	FlagSleepDecline    Flag = "sleep_decline"
	FlagWorkloadSpike   Flag = "workload_spike"
	FlagMoodInstability Flag = "mood_instability"
	FlagNutritionDrop   Flag = "nutrition_drop"
)

// flagOrder lists flags in metric declaration order. Insight text and
// preventive measures render in this order, not detection order.
var flagOrder = []struct {
	metric behavior.Metric
	flag   Flag
}{
	{behavior.MetricStress, FlagRisingStress},
	{behavior.MetricSleep, FlagSleepDecline},
	{behavior.MetricWorkload, FlagWorkloadSpike},
	{behavior.MetricMood, FlagMoodInstability},
	{behavior.MetricNutrition, FlagNutritionDrop},
}

// Flags is the set of fired flags for one evaluation.
type Flags []Flag

// Has reports whether a flag fired.
func (f Flags) Has(flag Flag) bool {
	for _, v := range f {
		if v == flag {
			return true
		}
	}
	return false
}

// Strings returns the flags as plain strings for serialization.
func (f Flags) Strings() []string {
	out := make([]string, len(f))
	for i, v := range f {
		out[i] = string(v)
	}
	return out
}

// DetectFlags thresholds each deviation independently. Flags come back in
// the fixed metric order.
func DetectFlags(dev Deviation) Flags {
	var flags Flags
	for _, entry := range flagOrder {
		if dev.Get(entry.metric) > flagThreshold {
			flags = append(flags, entry.flag)
		}
	}
	return flags
}

// BehavioralState names the pattern the flag combination reduces to.
type BehavioralState string

const (
	StateStable            BehavioralState = "Stable"
	StateBurnoutEmerging   BehavioralState = "Burnout Pattern Emerging"
	StateEmotionalOverload BehavioralState = "Emotional Overload Pattern"
	StateRapidEscalation   BehavioralState = "Rapid Stress Escalation"
)

// IsValid checks the state tag.
func (s BehavioralState) IsValid() bool {
	switch s {
	case StateStable, StateBurnoutEmerging, StateEmotionalOverload, StateRapidEscalation:
		return true
	default:
		return false
	}
}

// ClassifyState reduces flags plus velocity to a behavioral state. All three
// checks run unconditionally and the last matching one wins; when the
// escalation check and a flag pair both match, the result is always
// Rapid Stress Escalation. The override order is a preserved compatibility
// behavior - see DESIGN.md before changing it.
func ClassifyState(flags Flags, stressVelocity float64) BehavioralState {
	state := StateStable
	if flags.Has(FlagRisingStress) && flags.Has(FlagSleepDecline) {
		state = StateBurnoutEmerging
	}
	if flags.Has(FlagMoodInstability) && flags.Has(FlagWorkloadSpike) {
		state = StateEmotionalOverload
	}
	if stressVelocity > escalationThreshold {
		state = StateRapidEscalation
	}
	return state
}
