package behavior

import (
	"context"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// Repository is the persistence port for daily logs.
// Implementations live in internal/infrastructure/persistence.
type Repository interface {
	// UpsertForDay writes the log for its day, replacing any prior entry for
	// the same (user, day) pair. Returns replaced=true when an entry existed.
	UpsertForDay(ctx context.Context, log *DailyLog) (replaced bool, err error)

	// GetForDay returns the log for a specific day, or shared.ErrLogNotFound.
	GetForDay(ctx context.Context, userID shared.UserID, day shared.Day) (*DailyLog, error)

	// ListRecent returns up to n logs ordered most-recent-first by timestamp.
	ListRecent(ctx context.Context, userID shared.UserID, n int) ([]*DailyLog, error)

	// ListOldest returns up to n logs ordered oldest-first by timestamp.
	// The baseline manager averages the oldest four.
	ListOldest(ctx context.Context, userID shared.UserID, n int) ([]*DailyLog, error)

	// CountForUser returns how many logs exist for a user.
	CountForUser(ctx context.Context, userID shared.UserID) (int, error)

	// ListUsersWithoutLogForDay returns users that have logged before but have
	// no entry for the given day. Used by the missed-checkin worker job.
	ListUsersWithoutLogForDay(ctx context.Context, day shared.Day, limit int) ([]shared.UserID, error)
}
