// Package schedule contains the schedule stress predictor: a standalone
// model that forecasts a 1-5 stress score for a day from its planned,
// time-blocked schedule. It is independent of the behavioral risk pipeline
// and operates purely on the declared plan, not on history.
package schedule

import (
	"math"
	"time"
)

// BlockType categorizes a schedule block. Unrecognized types fall back to
// the default weight.
type BlockType string

const (
	TypeExam       BlockType = "exam"
	TypeAssignment BlockType = "assignment"
	TypeLecture    BlockType = "lecture"
	TypeLab        BlockType = "lab"
	TypeStudy      BlockType = "study"
	TypeMeeting    BlockType = "meeting"
	TypeSocial     BlockType = "social"
	TypeBreak      BlockType = "break"
	TypeExercise   BlockType = "exercise"
	TypeOther      BlockType = "other"
)

// typeWeights is the fixed per-type stress weight table. Restorative block
// types carry negative weight.
var typeWeights = map[BlockType]float64{
	TypeExam:       1.0,
	TypeAssignment: 0.75,
	TypeLecture:    0.35,
	TypeLab:        0.55,
	TypeStudy:      0.50,
	TypeMeeting:    0.30,
	TypeSocial:     0.05,
	TypeBreak:      -0.20,
	TypeExercise:   -0.25,
	TypeOther:      0.25,
}

// unknownTypeWeight applies to block types missing from the table entirely.
const unknownTypeWeight = 0.3

// defaultDurationMinutes is assumed when a block has no duration.
const defaultDurationMinutes = 60

// Block is one typed, durationed entry in a day's plan. Owned by the
// planner; the predictor reads it and never writes.
type Block struct {
	ID              string
	Title           string
	Type            BlockType
	StartTime       string // "HH:MM" wall-clock start
	DurationMinutes int
	Course          string
	CreatedAt       time.Time
}

// Weight returns the stress weight for the block's type.
func (b Block) Weight() float64 {
	if w, ok := typeWeights[b.Type]; ok {
		return w
	}
	return unknownTypeWeight
}

// DurationFactor is a step function of a block's length in minutes.
func DurationFactor(minutes int) float64 {
	switch {
	case minutes <= 30:
		return 0.6
	case minutes <= 60:
		return 0.8
	case minutes <= 90:
		return 1.0
	case minutes <= 120:
		return 1.2
	default:
		return 1.4
	}
}

// PredictStress forecasts a 1..5 stress score for a day of blocks.
// Per block the contribution is weight(type) * durationFactor(duration);
// the aggregate is the plain mean across blocks (divided by block count,
// not by total weight), clamped to [0,1], then rescaled to an integer via
// round(clamped*4 + 1). An empty day yields no prediction (nil), not zero.
func PredictStress(blocks []Block) *int {
	if len(blocks) == 0 {
		return nil
	}

	var raw float64
	for _, b := range blocks {
		minutes := b.DurationMinutes
		if minutes == 0 {
			minutes = defaultDurationMinutes
		}
		raw += b.Weight() * DurationFactor(minutes)
	}

	avg := raw / float64(len(blocks))
	clamped := math.Max(0, math.Min(1, avg))
	score := int(math.Round(clamped*4 + 1))
	return &score
}
