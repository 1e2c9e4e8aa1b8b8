package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func serverWithKeys(t *testing.T, keys ...string) *Server {
	t.Helper()

	cfg := DefaultConfig()
	for _, key := range keys {
		hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.CounselorKeyHashes = append(cfg.CounselorKeyHashes, string(hash))
	}
	return NewServer(cfg, Dependencies{})
}

func TestRequireCounselorKey(t *testing.T) {
	s := serverWithKeys(t, "team-a-key", "team-b-key")

	called := false
	handler := s.requireCounselorKey(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	// No key.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	// Wrong key.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	req.Header.Set("X-API-Key", "guessed")
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	// Any configured key passes.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	req.Header.Set("X-API-Key", "team-b-key")
	handler(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}

func TestVerifyCounselorKey_NoHashesConfigured(t *testing.T) {
	s := serverWithKeys(t)
	assert.False(t, s.verifyCounselorKey("anything"),
		"an empty hash list locks the counselor surface shut")
}

func TestRequestIdentityHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkin", nil)
	req.Header.Set("X-User-ID", "  student-1  ")
	req.Header.Set("X-Counselor-ID", "counselor-9")

	assert.Equal(t, "student-1", requestUserID(req))
	assert.Equal(t, "counselor-9", counselorID(req))
}
