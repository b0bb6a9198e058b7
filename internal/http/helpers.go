package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"billwise/internal/core"
	"billwise/internal/log"
)

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return "req_" + id.String()
	}
	// Fallback when the random source fails
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// requireSession returns the authenticated username or redirects to the
// entry point and reports false.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, err := s.sessions.Current(r)
	if err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Unauthenticated request",
			"url", r.URL.Path, log.FieldError, core.ErrUnauthenticated.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return "", false
	}
	return username, true
}
