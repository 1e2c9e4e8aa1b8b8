package http

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// COUNSELOR AUTHENTICATION
// The counselor surface is gated by an API key checked against bcrypt hashes,
// so a leaked config file never leaks a usable key. Student endpoints carry
// identity in X-User-ID from the upstream gateway and are not gated here.
// ══════════════════════════════════════════════════════════════════════════════

// counselorIDHeader carries the acting counselor's identifier for audit rows.
const counselorIDHeader = "X-Counselor-ID"

// requireCounselorKey wraps a handler with API key verification.
func (s *Server) requireCounselorKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(s.config.APIKeyHeader)
		if key == "" || !s.verifyCounselorKey(key) {
			writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "A valid counselor API key is required")
			return
		}
		next(w, r)
	}
}

// verifyCounselorKey compares the presented key against every configured hash.
// The hash list is small (one per counselor team), so the linear scan is fine.
func (s *Server) verifyCounselorKey(key string) bool {
	for _, hash := range s.config.CounselorKeyHashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil {
			return true
		}
	}
	return false
}

// counselorID extracts the acting counselor's identifier.
func counselorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(counselorIDHeader))
}

// requestUserID extracts the authenticated student's identifier. Empty means
// the gateway never authenticated the caller; the command layer rejects that.
func requestUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}
