package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInsight_LowRisk(t *testing.T) {
	got := GenerateInsight(LevelLow, Flags{FlagRisingStress}, StateStable)
	assert.Equal(t, "Your behavioral patterns remain within your baseline range.", got)
}

func TestGenerateInsight_Moderate(t *testing.T) {
	got := GenerateInsight(LevelModerate, Flags{FlagRisingStress, FlagSleepDecline}, StateBurnoutEmerging)

	assert.Contains(t, got, "rising stress, sleep decline", "underscores render as spaces")
	assert.Contains(t, got, "Early strain indicators observed.")
	assert.Contains(t, got, "Pattern identified: Burnout Pattern Emerging.")
}

func TestGenerateInsight_High(t *testing.T) {
	got := GenerateInsight(LevelHigh, Flags{FlagWorkloadSpike}, StateRapidEscalation)

	assert.Contains(t, got, "workload spike")
	assert.Contains(t, got, "Immediate intervention advised.")
	assert.Contains(t, got, "Rapid Stress Escalation")
}

func TestGeneratePrevention(t *testing.T) {
	measures := GeneratePrevention(Flags{FlagSleepDecline, FlagNutritionDrop})

	assert.Equal(t, []string{
		"Reinforce consistent sleep schedule.",
		"Maintain regular hydration and balanced meals.",
	}, measures)

	assert.Empty(t, GeneratePrevention(nil))
}
