// ABOUTME: Session cookie authentication middleware
// ABOUTME: Validates the opaque session ID and attaches the session to context

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// AuthMode defines how authentication is enforced
type AuthMode string

const (
	// AuthModeDisabled skips all authentication
	AuthModeDisabled AuthMode = "disabled"
	// AuthModeOptional validates the session if present, allows anonymous
	AuthModeOptional AuthMode = "optional"
	// AuthModeRequired rejects requests without a valid session
	AuthModeRequired AuthMode = "required"
)

// SessionValidatorFunc resolves a session cookie value to a live session.
// Returns nil when the ID is unknown or the session is no longer authenticated.
type SessionValidatorFunc func(sessionID string) *models.Session

// AuthConfig holds authentication middleware settings
type AuthConfig struct {
	Mode      AuthMode
	Validator SessionValidatorFunc
}

// ValidateAuthMode validates an auth mode string and returns the
// corresponding AuthMode. Empty string defaults to AuthModeOptional.
func ValidateAuthMode(mode string) (AuthMode, error) {
	switch mode {
	case "", "optional":
		return AuthModeOptional, nil
	case "disabled":
		return AuthModeDisabled, nil
	case "required":
		return AuthModeRequired, nil
	default:
		return "", fmt.Errorf("invalid auth mode: %q (must be disabled, optional, or required)", mode)
	}
}

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const sessionContextKey contextKey = "session"

// Auth returns middleware that validates the session cookie. The behavior
// depends on the configured mode:
//   - disabled: passes all requests through
//   - optional: validates the session if present, allows anonymous
//   - required: rejects requests without a valid session
//
// A cookie that is present but resolves to no session is always rejected,
// even in optional mode: a stale cookie means the session was cleared and
// the browser must sign in again.
func Auth(cfg AuthConfig) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if cfg.Mode == AuthModeDisabled {
				next(w, r)
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if cfg.Validator == nil {
					slog.Error("Auth: session validator not configured")
					writeJSONError(w, "Server configuration error", http.StatusInternalServerError)
					return
				}
				session := cfg.Validator(cookie.Value)
				if session == nil {
					slog.Debug("Auth rejected: invalid session", "path", r.URL.Path)
					writeJSONError(w, "Invalid session", http.StatusUnauthorized)
					return
				}
				slog.Debug("Auth: valid session", "path", r.URL.Path, "user", session.Username)
				ctx := context.WithValue(r.Context(), sessionContextKey, session)
				next(w, r.WithContext(ctx))
				return
			}

			if cfg.Mode == AuthModeRequired {
				slog.Debug("Auth rejected: no session cookie", "path", r.URL.Path)
				writeJSONError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			next(w, r)
		}
	}
}

// GetSession extracts the authenticated session from request context.
// Returns nil for anonymous requests.
func GetSession(r *http.Request) *models.Session {
	session, ok := r.Context().Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
