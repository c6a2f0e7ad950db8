// ABOUTME: Session registry creating, restoring, and looking up managers
// ABOUTME: Bootstrap reconciles persisted projections with the wall clock

package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/metrics"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// Registry holds one Manager per live session, keyed by the opaque session ID
// carried in the browser cookie. Each entry runs the full single-session
// lifecycle: scheduled refresh, terminal clear on failure, persistence.
type Registry struct {
	mu       sync.RWMutex
	managers map[string]*Manager
	auth     RefreshClient
	store    Store
	opts     Options
	restored bool
}

// NewRegistry creates an empty registry. Restore must be called once at
// startup to adopt persisted sessions.
func NewRegistry(auth RefreshClient, store Store, opts Options) *Registry {
	return &Registry{
		managers: make(map[string]*Manager),
		auth:     auth,
		store:    store,
		opts:     opts,
	}
}

// Create builds a manager for a fresh login and returns its session ID.
func (r *Registry) Create(data models.LoginData) (string, *Manager, error) {
	sid, err := NewToken()
	if err != nil {
		return "", nil, fmt.Errorf("generate session id: %w", err)
	}

	mgr := r.newManager()
	r.mu.Lock()
	r.managers[sid] = mgr
	n := len(r.managers)
	r.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))

	mgr.SetSession(sid, data)
	return sid, mgr, nil
}

// Get returns the manager for a session ID.
func (r *Registry) Get(sid string) (*Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mgr, ok := r.managers[sid]
	return mgr, ok
}

// Validate returns a snapshot for an authenticated session ID, or nil.
// Used by the auth middleware.
func (r *Registry) Validate(sid string) *models.Session {
	mgr, ok := r.Get(sid)
	if !ok {
		return nil
	}
	s := mgr.Snapshot()
	if !s.Authenticated {
		return nil
	}
	return &s
}

// Logout clears the session for the given ID. Unknown IDs are a no-op.
func (r *Registry) Logout(sid string) {
	if mgr, ok := r.Get(sid); ok {
		mgr.ClearSession()
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.managers)
}

// Restore runs the one-time bootstrap: load persisted projections, drop the
// unusable ones, refresh the ones at or past the margin, and arm the rest.
// Subsequent calls are no-ops.
func (r *Registry) Restore(ctx context.Context) error {
	r.mu.Lock()
	if r.restored {
		r.mu.Unlock()
		return nil
	}
	r.restored = true
	r.mu.Unlock()

	if r.store == nil {
		return nil
	}

	sessions, err := r.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load persisted sessions: %w", err)
	}

	for _, s := range sessions {
		if !s.Authenticated || s.AccessToken == "" || s.RefreshToken == "" || s.ID == "" {
			// Nothing to restore; drop the stale projection.
			if s.ID != "" {
				if err := r.store.Delete(ctx, s.ID); err != nil {
					slog.Warn("Failed to drop stale session projection", "session_id", s.ID, "error", err)
				}
			}
			continue
		}

		mgr := r.newManager()
		mgr.adopt(s)
		r.mu.Lock()
		r.managers[s.ID] = mgr
		r.mu.Unlock()

		remaining := s.TokenExpiry.Sub(mgr.opts.Now())
		if remaining < mgr.opts.RefreshMargin {
			// Expired or expiring soon; the token cannot be trusted as-is.
			// A failed refresh clears and removes the session itself.
			if res := mgr.Refresh(ctx); !res.Success {
				slog.Info("Persisted session could not be refreshed", "session_id", s.ID)
				continue
			}
		} else {
			mgr.Arm()
		}
		slog.Debug("Restored session", "session_id", s.ID, "user_id", s.UserID)
	}

	metrics.SessionsActive.Set(float64(r.Len()))
	return nil
}

func (r *Registry) newManager() *Manager {
	opts := r.opts
	opts.OnCleared = func(id string) { r.remove(id) }
	return NewManager(r.auth, r.store, opts)
}

func (r *Registry) remove(sid string) {
	r.mu.Lock()
	delete(r.managers, sid)
	n := len(r.managers)
	r.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))
}

// NewToken returns 32 bytes of cryptographically secure randomness,
// base64url-encoded. Used for session IDs and CSRF tokens.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
