package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictStress_EmptyDay(t *testing.T) {
	assert.Nil(t, PredictStress(nil))
	assert.Nil(t, PredictStress([]Block{}))
}

func TestPredictStress_ExamHeavyDay(t *testing.T) {
	blocks := []Block{
		{Type: TypeExam, DurationMinutes: 120},       // 1.0 * 1.2 = 1.2
		{Type: TypeAssignment, DurationMinutes: 120}, // 0.75 * 1.2 = 0.9
	}

	score := PredictStress(blocks)
	require.NotNil(t, score)
	// mean 1.05 clamps to 1.0 -> round(1*4 + 1) = 5
	assert.Equal(t, 5, *score)
}

func TestPredictStress_RestorativeBlocksReduceScore(t *testing.T) {
	stressful := []Block{
		{Type: TypeStudy, DurationMinutes: 90}, // 0.50 * 1.0
	}
	withBreaks := append(stressful,
		Block{Type: TypeBreak, DurationMinutes: 30},    // -0.20 * 0.6
		Block{Type: TypeExercise, DurationMinutes: 60}, // -0.25 * 0.8
	)

	a := PredictStress(stressful)
	b := PredictStress(withBreaks)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Greater(t, *a, *b)
}

func TestPredictStress_ZeroDurationDefaultsToAnHour(t *testing.T) {
	withDefault := PredictStress([]Block{{Type: TypeLecture}})
	explicit := PredictStress([]Block{{Type: TypeLecture, DurationMinutes: 60}})

	require.NotNil(t, withDefault)
	require.NotNil(t, explicit)
	assert.Equal(t, *explicit, *withDefault)
}

func TestPredictStress_UnknownTypeFallsBack(t *testing.T) {
	score := PredictStress([]Block{{Type: BlockType("yoga"), DurationMinutes: 60}})
	require.NotNil(t, score)
	// 0.3 * 0.8 = 0.24 -> round(0.24*4 + 1) = round(1.96) = 2
	assert.Equal(t, 2, *score)
}

func TestDurationFactor(t *testing.T) {
	assert.Equal(t, 0.6, DurationFactor(15))
	assert.Equal(t, 0.6, DurationFactor(30))
	assert.Equal(t, 0.8, DurationFactor(45))
	assert.Equal(t, 1.0, DurationFactor(90))
	assert.Equal(t, 1.2, DurationFactor(120))
	assert.Equal(t, 1.4, DurationFactor(180))
}

func TestBlock_Weight(t *testing.T) {
	assert.Equal(t, 1.0, Block{Type: TypeExam}.Weight())
	assert.Equal(t, -0.25, Block{Type: TypeExercise}.Weight())
	assert.Equal(t, 0.3, Block{Type: BlockType("unknown")}.Weight())
}
