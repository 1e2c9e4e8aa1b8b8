package command

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/alert"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// In-memory fakes for the handler tests. Each fake also appends to an
// optional shared ops journal so tests can assert write ordering.

type fakeLogRepo struct {
	logs []*behavior.DailyLog
}

func (r *fakeLogRepo) UpsertForDay(_ context.Context, log *behavior.DailyLog) (bool, error) {
	for i, existing := range r.logs {
		if existing.UserID == log.UserID && existing.IsFor(log.Day) {
			r.logs[i] = log
			return true, nil
		}
	}
	r.logs = append(r.logs, log)
	return false, nil
}

func (r *fakeLogRepo) GetForDay(_ context.Context, userID shared.UserID, day shared.Day) (*behavior.DailyLog, error) {
	for _, l := range r.logs {
		if l.UserID == userID && l.IsFor(day) {
			return l, nil
		}
	}
	return nil, shared.ErrLogNotFound
}

func (r *fakeLogRepo) forUser(userID shared.UserID) []*behavior.DailyLog {
	var out []*behavior.DailyLog
	for _, l := range r.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out
}

func (r *fakeLogRepo) ListRecent(_ context.Context, userID shared.UserID, n int) ([]*behavior.DailyLog, error) {
	out := r.forUser(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *fakeLogRepo) ListOldest(_ context.Context, userID shared.UserID, n int) ([]*behavior.DailyLog, error) {
	out := r.forUser(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *fakeLogRepo) CountForUser(_ context.Context, userID shared.UserID) (int, error) {
	return len(r.forUser(userID)), nil
}

func (r *fakeLogRepo) ListUsersWithoutLogForDay(_ context.Context, _ shared.Day, _ int) ([]shared.UserID, error) {
	return nil, nil
}

type fakeBaselineRepo struct {
	baselines map[shared.UserID]risk.Baseline

	// forceLoseRace makes CreateIfAbsent report an existing baseline even on
	// the first write, simulating a concurrent run winning the race.
	forceLoseRace bool
}

func newFakeBaselineRepo() *fakeBaselineRepo {
	return &fakeBaselineRepo{baselines: make(map[shared.UserID]risk.Baseline)}
}

func (r *fakeBaselineRepo) Get(_ context.Context, userID shared.UserID) (*risk.Baseline, error) {
	b, ok := r.baselines[userID]
	if !ok {
		return nil, shared.ErrBaselineNotFound
	}
	return &b, nil
}

func (r *fakeBaselineRepo) CreateIfAbsent(_ context.Context, baseline risk.Baseline) (bool, error) {
	if _, ok := r.baselines[baseline.UserID]; ok {
		return false, nil
	}
	if r.forceLoseRace {
		r.baselines[baseline.UserID] = baseline // the "other" run's write
		return false, nil
	}
	r.baselines[baseline.UserID] = baseline
	return true, nil
}

type fakeAssessmentRepo struct {
	assessments []*risk.Assessment
	journal     *[]string
}

func (r *fakeAssessmentRepo) Append(_ context.Context, a *risk.Assessment) error {
	r.assessments = append(r.assessments, a)
	if r.journal != nil {
		*r.journal = append(*r.journal, "assessment")
	}
	return nil
}

func (r *fakeAssessmentRepo) ListRecent(_ context.Context, userID shared.UserID, n int) ([]*risk.Assessment, error) {
	var out []*risk.Assessment
	for i := len(r.assessments) - 1; i >= 0 && len(out) < n; i-- {
		if r.assessments[i].UserID == userID {
			out = append(out, r.assessments[i])
		}
	}
	return out, nil
}

func (r *fakeAssessmentRepo) RecentScores(ctx context.Context, userID shared.UserID, n int) ([]float64, error) {
	recent, _ := r.ListRecent(ctx, userID, n)
	scores := make([]float64, len(recent))
	for i, a := range recent {
		scores[i] = a.RiskScore
	}
	return scores, nil
}

func (r *fakeAssessmentRepo) Latest(ctx context.Context, userID shared.UserID) (*risk.Assessment, error) {
	recent, _ := r.ListRecent(ctx, userID, 1)
	if len(recent) == 0 {
		return nil, shared.ErrNotFound
	}
	return recent[0], nil
}

type fakeAlertRepo struct {
	alerts  []*alert.Alert
	journal *[]string
}

func (r *fakeAlertRepo) Append(_ context.Context, a *alert.Alert) error {
	r.alerts = append(r.alerts, a)
	if r.journal != nil {
		*r.journal = append(*r.journal, "alert")
	}
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, id string) (*alert.Alert, error) {
	for _, a := range r.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, shared.ErrAlertNotFound
}

func (r *fakeAlertRepo) ListUnresolved(_ context.Context, userID shared.UserID, limit int) ([]*alert.Alert, error) {
	var out []*alert.Alert
	for i := len(r.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		if r.alerts[i].UserID == userID && !r.alerts[i].Resolved {
			out = append(out, r.alerts[i])
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) CountUnresolved(ctx context.Context, userID shared.UserID) (int, error) {
	open, _ := r.ListUnresolved(ctx, userID, len(r.alerts)+1)
	return len(open), nil
}

func (r *fakeAlertRepo) MarkResolved(_ context.Context, a *alert.Alert) error {
	for i, existing := range r.alerts {
		if existing.ID == a.ID {
			r.alerts[i] = a
			return nil
		}
	}
	return shared.ErrAlertNotFound
}

type fakeBus struct {
	events []shared.Event
}

func (b *fakeBus) Publish(_ context.Context, event shared.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *fakeBus) Subscribe(shared.EventType, shared.EventHandler) error { return nil }
func (b *fakeBus) SubscribeAll(shared.EventHandler) error                { return nil }

func (b *fakeBus) typesPublished() []shared.EventType {
	out := make([]shared.EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeStreakTracker struct {
	streak int
}

func (t *fakeStreakTracker) RecordCheckin(context.Context, shared.UserID, shared.Day) (int, error) {
	t.streak++
	return t.streak, nil
}

// seedLogs inserts n daily logs for the user, one per day ending the day
// before `end`, all with the given metrics.
func seedLogs(repo *fakeLogRepo, userID shared.UserID, metrics behavior.Metrics, n int, end time.Time) {
	for i := n; i >= 1; i-- {
		ts := end.AddDate(0, 0, -i)
		day := shared.DayOf(ts, time.UTC)
		log, _ := behavior.NewDailyLog(fmt.Sprintf("log-%s-%d", userID, i), userID, day, metrics, "", ts)
		repo.logs = append(repo.logs, log)
	}
}
