package query

import (
	"context"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/schedule"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PREDICT SCHEDULE STRESS QUERY
// Stateless forecast: a declared day plan in, a 1..5 stress score out.
// Nothing is read from or written to the store.
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleBlockInput is one block of the day plan as submitted by the caller.
type ScheduleBlockInput struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration"`
	Course          string `json:"course"`
}

// PredictScheduleStressQuery carries the day plan.
type PredictScheduleStressQuery struct {
	Blocks []ScheduleBlockInput
}

// PredictScheduleStressDTO is the forecast result. Predicted is nil when the
// plan is empty - no blocks means no prediction, not a zero-stress day.
type PredictScheduleStressDTO struct {
	Predicted  *int `json:"predicted_stress"`
	BlockCount int  `json:"block_count"`
}

// PredictScheduleStressHandler handles PredictScheduleStressQuery.
type PredictScheduleStressHandler struct{}

// NewPredictScheduleStressHandler creates a new PredictScheduleStressHandler.
func NewPredictScheduleStressHandler() *PredictScheduleStressHandler {
	return &PredictScheduleStressHandler{}
}

// Handle executes the forecast.
func (h *PredictScheduleStressHandler) Handle(_ context.Context, q PredictScheduleStressQuery) (*PredictScheduleStressDTO, error) {
	blocks := make([]schedule.Block, 0, len(q.Blocks))
	for _, in := range q.Blocks {
		if in.DurationMinutes < 0 {
			return nil, shared.WrapError("query", "PredictScheduleStress", shared.ErrValueOutOfRange,
				"block duration cannot be negative", nil)
		}
		blocks = append(blocks, schedule.Block{
			ID:              in.ID,
			Title:           in.Title,
			Type:            schedule.BlockType(in.Type),
			StartTime:       in.StartTime,
			DurationMinutes: in.DurationMinutes,
			Course:          in.Course,
		})
	}

	return &PredictScheduleStressDTO{
		Predicted:  schedule.PredictStress(blocks),
		BlockCount: len(blocks),
	}, nil
}
