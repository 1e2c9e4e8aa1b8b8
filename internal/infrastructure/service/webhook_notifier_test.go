package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	auth    string
	payload webhookPayload
}

func captureServer(t *testing.T, sink *[]capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p webhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		*sink = append(*sink, capturedRequest{auth: r.Header.Get("Authorization"), payload: p})
		w.WriteHeader(http.StatusOK)
	}))
}

func daytime() time.Time {
	return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
}

func TestNotifyCounselor_DeliversPayload(t *testing.T) {
	var got []capturedRequest
	srv := captureServer(t, &got)
	defer srv.Close()

	cfg := DefaultWebhookNotifierConfig()
	cfg.CounselorURL = srv.URL
	cfg.AuthToken = "secret-token"
	n := NewWebhookNotifier(cfg, nil)

	err := n.NotifyCounselor(context.Background(), "student-1", "alert-1", "High risk detected")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bearer secret-token", got[0].auth)
	assert.Equal(t, "counselor_alert", got[0].payload.Kind)
	assert.Equal(t, "student-1", got[0].payload.UserID)
	assert.Equal(t, "alert-1", got[0].payload.AlertID)
	assert.Equal(t, "High risk detected", got[0].payload.Message)
}

func TestNotifyCounselor_UnconfiguredURLDropsSilently(t *testing.T) {
	n := NewWebhookNotifier(DefaultWebhookNotifierConfig(), nil)
	assert.NoError(t, n.NotifyCounselor(context.Background(), "student-1", "alert-1", "msg"))
}

func TestNotifyStudent_RespectsQuietHours(t *testing.T) {
	var got []capturedRequest
	srv := captureServer(t, &got)
	defer srv.Close()

	cfg := DefaultWebhookNotifierConfig()
	cfg.StudentURL = srv.URL
	n := NewWebhookNotifier(cfg, nil).
		WithClock(func() time.Time { return time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC) })

	err := n.NotifyStudent(context.Background(), "student-1", "checkin_reminder", "Don't forget to check in")

	require.NoError(t, err, "suppression is not an error")
	assert.Empty(t, got, "nothing is delivered during quiet hours")
}

func TestNotifyStudent_DeliversDuringTheDay(t *testing.T) {
	var got []capturedRequest
	srv := captureServer(t, &got)
	defer srv.Close()

	cfg := DefaultWebhookNotifierConfig()
	cfg.StudentURL = srv.URL
	n := NewWebhookNotifier(cfg, nil).WithClock(daytime)

	err := n.NotifyStudent(context.Background(), "student-1", "weekly_digest", "Your week in review")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "weekly_digest", got[0].payload.Kind)
	assert.Empty(t, got[0].payload.AlertID)
}

func TestNotifyStudent_QuietHoursFollowCampusTimezone(t *testing.T) {
	var got []capturedRequest
	srv := captureServer(t, &got)
	defer srv.Close()

	almaty := time.FixedZone("Asia/Almaty", 5*60*60)
	cfg := DefaultWebhookNotifierConfig()
	cfg.StudentURL = srv.URL
	cfg.Location = almaty

	// 18:00 UTC is 23:00 on campus.
	n := NewWebhookNotifier(cfg, nil).
		WithClock(func() time.Time { return time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC) })

	require.NoError(t, n.NotifyStudent(context.Background(), "student-1", "checkin_reminder", "msg"))
	assert.Empty(t, got)
}

func TestNotifyCounselor_NeverSuppressed(t *testing.T) {
	var got []capturedRequest
	srv := captureServer(t, &got)
	defer srv.Close()

	cfg := DefaultWebhookNotifierConfig()
	cfg.CounselorURL = srv.URL
	n := NewWebhookNotifier(cfg, nil).
		WithClock(func() time.Time { return time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC) })

	require.NoError(t, n.NotifyCounselor(context.Background(), "student-1", "alert-1", "High risk detected"))
	assert.Len(t, got, 1, "counselor alerts go out even overnight")
}

func TestNotify_PermanentRejectionIsNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := DefaultWebhookNotifierConfig()
	cfg.CounselorURL = srv.URL
	n := NewWebhookNotifier(cfg, nil)

	err := n.NotifyCounselor(context.Background(), "student-1", "alert-1", "msg")

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "a 4xx rejection is permanent")
}

func TestNotify_ServerErrorsAreRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultWebhookNotifierConfig()
	cfg.CounselorURL = srv.URL
	n := NewWebhookNotifier(cfg, nil)

	err := n.NotifyCounselor(context.Background(), "student-1", "alert-1", "msg")

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}
