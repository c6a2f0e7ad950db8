// ABOUTME: CSRF protection middleware using double-submit cookie pattern
// ABOUTME: Validates X-CSRF-Token header matches TRANQUIL_CSRF cookie

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

const (
	// SessionCookieName carries the opaque session ID (httpOnly).
	SessionCookieName = "TRANQUIL_SESSION"
	// CSRFCookieName carries the CSRF token the browser echoes in a header.
	CSRFCookieName = "TRANQUIL_CSRF"

	csrfHeaderName = "X-CSRF-Token"

	// base64url encoding of 32 bytes produces 44 characters (with padding)
	csrfTokenLength = 44
)

// csrfExemptPaths are endpoints that create or recover a session and must
// work even when the browser holds stale cookies with no CSRF pair.
var csrfExemptPaths = map[string]bool{
	"/api/v1/auth/login":               true,
	"/api/v1/auth/register":            true,
	"/api/v1/auth/reset-password":      true,
	"/api/v1/auth/reset-request":       true,
	"/api/v1/auth/verify-email":        true,
	"/api/v1/auth/resend-verification": true,
}

// CSRF returns middleware that validates CSRF tokens for state-changing
// requests. Validation is skipped for:
//   - GET, HEAD, OPTIONS requests (safe methods)
//   - session-creating endpoints (login, register, the recovery flows)
//   - requests without a session cookie (not session-authenticated)
func CSRF() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next(w, r)
				return
			}

			if csrfExemptPaths[r.URL.Path] {
				slog.Debug("CSRF skipped: session-creating endpoint", "path", r.URL.Path)
				next(w, r)
				return
			}

			sessionCookie, err := r.Cookie(SessionCookieName)
			if err != nil || sessionCookie.Value == "" {
				next(w, r)
				return
			}

			csrfCookie, err := r.Cookie(CSRFCookieName)
			if err != nil || csrfCookie.Value == "" {
				slog.Debug("CSRF rejected: missing cookie", "path", r.URL.Path)
				writeJSONError(w, "CSRF token missing or invalid", http.StatusForbidden)
				return
			}

			csrfHeader := r.Header.Get(csrfHeaderName)
			if csrfHeader == "" {
				slog.Debug("CSRF rejected: missing header", "path", r.URL.Path)
				writeJSONError(w, "CSRF token missing or invalid", http.StatusForbidden)
				return
			}

			// Validate token lengths before comparison
			if len(csrfCookie.Value) != csrfTokenLength || len(csrfHeader) != csrfTokenLength {
				slog.Debug("CSRF rejected: invalid token length", "path", r.URL.Path)
				writeJSONError(w, "CSRF token missing or invalid", http.StatusForbidden)
				return
			}

			// Constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(csrfCookie.Value), []byte(csrfHeader)) != 1 {
				slog.Debug("CSRF rejected: token mismatch", "path", r.URL.Path)
				writeJSONError(w, "CSRF token missing or invalid", http.StatusForbidden)
				return
			}

			slog.Debug("CSRF validated", "path", r.URL.Path)
			next(w, r)
		}
	}
}
