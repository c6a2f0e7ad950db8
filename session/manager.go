// ABOUTME: Session manager owning the authenticated lifecycle for one user
// ABOUTME: Credential store, refresh scheduling, and the refresh protocol

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/metrics"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// RefreshClient exchanges a refresh token for a new token pair against the
// backend. Implemented by services.APIClient.
type RefreshClient interface {
	RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

// Timer is the cancellable handle for the single pending refresh action.
type Timer interface {
	Stop() bool
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

// Options configures a Manager. Zero values fall back to production defaults;
// Now and NewTimer exist so tests can drive the clock and observe scheduling.
type Options struct {
	TokenTTL      time.Duration // assumed access token validity (default 1h)
	RefreshMargin time.Duration // refresh this long before expiry (default 5m)
	Now           func() time.Time
	NewTimer      func(d time.Duration, fn func()) Timer
	OnCleared     func(sessionID string) // invoked after a session is cleared
}

func (o Options) withDefaults() Options {
	if o.TokenTTL <= 0 {
		o.TokenTTL = time.Hour
	}
	if o.RefreshMargin <= 0 {
		o.RefreshMargin = 5 * time.Minute
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewTimer == nil {
		o.NewTimer = func(d time.Duration, fn func()) Timer {
			return realTimer{time.AfterFunc(d, fn)}
		}
	}
	return o
}

// Result is the uniform outcome shape lifecycle methods report. Failures are
// values, never panics; the worst case is a cleared session.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Manager owns a single session record: profile mirror, token pair, expiry,
// and at most one pending refresh timer. All other components only read from
// it; none mutate session fields directly.
type Manager struct {
	mu        sync.Mutex
	state     models.Session
	epoch     uint64 // bumped on set, clear, and refresh; guards late-arriving refreshes
	timer     Timer
	refreshMu sync.Mutex // serializes refresh calls; at most one in flight
	auth      RefreshClient
	store     Store
	opts      Options
}

// NewManager creates a manager with no active session.
func NewManager(auth RefreshClient, store Store, opts Options) *Manager {
	return &Manager{
		auth:  auth,
		store: store,
		opts:  opts.withDefaults(),
	}
}

// SetSession installs a fresh session from a login/registration payload,
// computes the assumed expiry (now + TokenTTL), persists the projection,
// and arms the refresh scheduler.
func (m *Manager) SetSession(id string, data models.LoginData) {
	m.mu.Lock()
	m.cancelTimerLocked()
	now := m.opts.Now()
	m.epoch++
	m.state = models.Session{
		ID:                    id,
		Authenticated:         true,
		UserID:                data.User.ID,
		Username:              data.User.Username,
		Email:                 data.User.Email,
		Phone:                 data.User.Phone,
		Role:                  data.User.Role,
		SpecialistPermissions: data.User.SpecialistPermissions,
		AssignedProperties:    data.User.AssignedProperties,
		AccessToken:           data.Tokens.AccessToken,
		RefreshToken:          data.Tokens.RefreshToken,
		TokenExpiry:           now.Add(m.opts.TokenTTL),
		EmailVerified:         data.User.EmailVerified,
		CreatedAt:             now,
	}
	snapshot := m.state
	m.mu.Unlock()

	m.persist(snapshot)
	m.Arm()
}

// ClearSession cancels any pending timer, zeroes every session field, and
// removes the persisted projection. Idempotent: a second call is a no-op.
func (m *Manager) ClearSession() {
	m.mu.Lock()
	m.cancelTimerLocked()
	if !m.state.Authenticated && m.state.AccessToken == "" && m.state.RefreshToken == "" {
		m.mu.Unlock()
		return
	}
	id := m.state.ID
	m.epoch++
	m.state = models.Session{}
	m.mu.Unlock()

	if m.store != nil && id != "" {
		if err := m.store.Delete(context.Background(), id); err != nil {
			slog.Warn("Failed to delete persisted session", "session_id", id, "error", err)
		}
	}
	if m.opts.OnCleared != nil {
		m.opts.OnCleared(id)
	}
}

// UpdateProfile merges non-token fields into the session. Tokens, expiry,
// and the timer are never touched here.
func (m *Manager) UpdateProfile(p models.ProfileUpdate) {
	m.mu.Lock()
	if p.Username != "" {
		m.state.Username = p.Username
	}
	if p.Email != "" {
		m.state.Email = p.Email
	}
	if p.Phone != "" {
		m.state.Phone = p.Phone
	}
	if p.Role != "" {
		m.state.Role = p.Role
	}
	if p.SpecialistPermissions != nil {
		m.state.SpecialistPermissions = p.SpecialistPermissions
	}
	if p.AssignedProperties != nil {
		m.state.AssignedProperties = p.AssignedProperties
	}
	snapshot := m.state
	m.mu.Unlock()

	m.persist(snapshot)
}

// AuthHeader returns the headers other clients attach to upstream requests:
// empty when there is no access token, otherwise a single bearer entry.
func (m *Manager) AuthHeader() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.AccessToken == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + m.state.AccessToken}
}

// Snapshot returns a copy of the current session record.
func (m *Manager) Snapshot() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether the session holds a live token pair.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Authenticated
}

// Arm schedules the next refresh. Any previously armed timer is cancelled
// first, so two live timers can never exist. When the token is already within
// the refresh margin of expiry it is refreshed immediately instead of
// deferred: the margin absorbs network latency and clock skew, so a token
// closer to expiry than that is treated as unusable.
func (m *Manager) Arm() {
	m.mu.Lock()
	m.cancelTimerLocked()
	if !m.state.Authenticated || m.state.AccessToken == "" {
		m.mu.Unlock()
		return
	}
	remaining := m.state.TokenExpiry.Sub(m.opts.Now())
	if remaining <= m.opts.RefreshMargin {
		m.mu.Unlock()
		m.Refresh(context.Background())
		return
	}
	m.timer = m.opts.NewTimer(remaining-m.opts.RefreshMargin, func() {
		m.Refresh(context.Background())
	})
	m.mu.Unlock()
}

// Cancel clears any pending refresh timer. Safe to call when none is pending.
func (m *Manager) Cancel() {
	m.mu.Lock()
	m.cancelTimerLocked()
	m.mu.Unlock()
}

func (m *Manager) cancelTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Refresh exchanges the refresh token for a new pair. Success stores the new
// tokens, recomputes expiry, persists, and re-arms. Any failure is terminal:
// the session is cleared and the caller is expected to redirect to login.
//
// Calls are single-flight: a timer-fired refresh and a manual one serialize
// on refreshMu, and whichever loses the race returns the winner's outcome
// instead of spending the already-rotated refresh token. A response arriving
// after the session epoch advanced (logout raced the in-flight call) is
// discarded rather than applied or treated as a failure.
func (m *Manager) Refresh(ctx context.Context) Result {
	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	m.mu.Lock()
	if m.epoch != epoch {
		// The session changed while we waited for the lock: a concurrent
		// refresh already installed a fresh pair, or a set/clear replaced
		// the session. Either way this call has nothing left to do.
		authenticated := m.state.Authenticated
		m.mu.Unlock()
		metrics.RefreshTotal.WithLabelValues("stale").Inc()
		if authenticated {
			return Result{Success: true}
		}
		return Result{Message: "session superseded"}
	}
	refreshToken := m.state.RefreshToken
	m.mu.Unlock()

	if refreshToken == "" {
		m.ClearSession()
		return Result{Message: "no refresh token"}
	}

	pair, err := m.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		m.mu.Lock()
		stale := m.epoch != epoch
		m.mu.Unlock()
		if stale {
			// The session this call was refreshing no longer exists;
			// clearing now would wipe a newer login's tokens.
			metrics.RefreshTotal.WithLabelValues("stale").Inc()
			return Result{Message: "session superseded"}
		}
		slog.Warn("Token refresh failed, clearing session", "error", err)
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		m.ClearSession()
		return Result{Message: "session expired, please sign in again"}
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		metrics.RefreshTotal.WithLabelValues("stale").Inc()
		return Result{Message: "session superseded"}
	}
	m.epoch++ // the new pair supersedes anything captured before this point
	m.state.AccessToken = pair.AccessToken
	m.state.RefreshToken = pair.RefreshToken
	m.state.TokenExpiry = m.opts.Now().Add(m.opts.TokenTTL)
	snapshot := m.state
	m.mu.Unlock()

	m.persist(snapshot)
	m.Arm()
	metrics.RefreshTotal.WithLabelValues("success").Inc()
	return Result{Success: true}
}

// adopt installs a persisted projection as-is, without recomputing expiry.
// Used by the registry during bootstrap.
func (m *Manager) adopt(s models.Session) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) persist(s models.Session) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(context.Background(), s); err != nil {
		slog.Warn("Failed to persist session", "session_id", s.ID, "error", err)
	}
}
