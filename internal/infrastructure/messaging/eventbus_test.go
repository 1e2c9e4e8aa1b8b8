package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

func syncBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = false
	return NewInMemoryEventBus(cfg)
}

func testEvent(userID string) shared.DailyLogSubmittedEvent {
	return shared.DailyLogSubmittedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventDailyLogSubmitted, userID),
		UserID:    userID,
	}
}

type recordingHandler struct {
	mu     sync.Mutex
	events []shared.Event
	err    error
}

func (h *recordingHandler) Handle(_ context.Context, event shared.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestEventBus_DeliversToTypeSubscribers(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	matched := &recordingHandler{}
	other := &recordingHandler{}
	require.NoError(t, bus.Subscribe(shared.EventDailyLogSubmitted, matched))
	require.NoError(t, bus.Subscribe(shared.EventAlertResolved, other))

	require.NoError(t, bus.Publish(context.Background(), testEvent("student-1")))

	assert.Equal(t, 1, matched.count())
	assert.Equal(t, 0, other.count(), "handlers only see their subscribed type")
}

func TestEventBus_SubscribeAllSeesEverything(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	all := &recordingHandler{}
	require.NoError(t, bus.SubscribeAll(all))

	require.NoError(t, bus.Publish(context.Background(), testEvent("student-1")))
	require.NoError(t, bus.Publish(context.Background(), shared.AlertResolvedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventAlertResolved, "student-1"),
		UserID:    "student-1",
	}))

	assert.Equal(t, 2, all.count())
}

func TestEventBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	failing := &recordingHandler{err: errors.New("boom")}
	healthy := &recordingHandler{}
	require.NoError(t, bus.Subscribe(shared.EventDailyLogSubmitted, failing))
	require.NoError(t, bus.Subscribe(shared.EventDailyLogSubmitted, healthy))

	require.NoError(t, bus.Publish(context.Background(), testEvent("student-1")))

	assert.Equal(t, 1, healthy.count())
}

func TestEventBus_AsyncDeliveryCompletesBeforeClose(t *testing.T) {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.WorkerPoolSize = 2
	bus := NewInMemoryEventBus(cfg)

	h := &recordingHandler{}
	require.NoError(t, bus.SubscribeAll(h))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), testEvent("student-1")))
	}

	// Close waits for in-flight handlers.
	require.NoError(t, bus.Close())
	assert.Equal(t, 5, h.count())
}

func TestEventBus_ClosedBusRejectsEverything(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(context.Background(), testEvent("student-1")), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventDailyLogSubmitted, &recordingHandler{}), ErrEventBusClosed)
	assert.ErrorIs(t, bus.SubscribeAll(&recordingHandler{}), ErrEventBusClosed)

	// Closing twice is a no-op.
	assert.NoError(t, bus.Close())
}

func TestEventBus_NilArguments(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	assert.Error(t, bus.Subscribe(shared.EventDailyLogSubmitted, nil))
	assert.Error(t, bus.SubscribeAll(nil))
	assert.Error(t, bus.Publish(context.Background(), nil))
}

func TestEventBus_MetricsCountPublishes(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	require.NoError(t, bus.SubscribeAll(&recordingHandler{}))
	require.NoError(t, bus.Publish(context.Background(), testEvent("student-1")))
	require.NoError(t, bus.Publish(context.Background(), testEvent("student-2")))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.TotalPublished)
	assert.Equal(t, int64(2), snap.TotalHandlerExecs)
	assert.Equal(t, 1.0, snap.HandlerSuccessRate)
}
