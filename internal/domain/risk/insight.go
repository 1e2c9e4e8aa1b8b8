package risk

import (
	"fmt"
	"strings"
)

// Insight and prevention text. Pure functions of (level, flags, state);
// the wording is fixed so counselors see consistent phrasing across users.

const lowRiskInsight = "Your behavioral patterns remain within your baseline range."

// preventionByFlag maps each flag to its fixed recommendation. Flags without
// an entry contribute nothing to the prevention list.
var preventionByFlag = map[Flag]string{
	FlagRisingStress:    "Implement structured relaxation periods.",
	FlagSleepDecline:    "Reinforce consistent sleep schedule.",
	FlagWorkloadSpike:   "Reduce non-essential academic tasks.",
	FlagMoodInstability: "Practice journaling or reflection exercises.",
	FlagNutritionDrop:   "Maintain regular hydration and balanced meals.",
}

// GenerateInsight renders the human-readable summary for one evaluation.
// Low risk yields a fixed reassurance sentence; Moderate and High list the
// fired flags (underscores rendered as spaces), add a severity clause, and
// name the behavioral state.
func GenerateInsight(level RiskLevel, flags Flags, state BehavioralState) string {
	if level == LevelLow {
		return lowRiskInsight
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Detected changes in %s. ",
		strings.ReplaceAll(strings.Join(flags.Strings(), ", "), "_", " "))

	if level == LevelModerate {
		b.WriteString("Early strain indicators observed. Small corrections recommended. ")
	}
	if level == LevelHigh {
		b.WriteString("Significant deviation from baseline detected. Immediate intervention advised. ")
	}

	fmt.Fprintf(&b, "Pattern identified: %s.", state)
	return b.String()
}

// GeneratePrevention returns one recommendation per fired flag, in flag
// declaration order.
func GeneratePrevention(flags Flags) []string {
	var measures []string
	for _, f := range flags {
		if m, ok := preventionByFlag[f]; ok {
			measures = append(measures, m)
		}
	}
	return measures
}
