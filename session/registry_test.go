// ABOUTME: Tests for the session registry and startup bootstrap
// ABOUTME: Verifies restore decisions: drop, refresh, or arm per projection

package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

func newTestRegistry(t *testing.T, clk *fakeClock, spy *timerSpy, client *fakeRefreshClient) (*Registry, Store) {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "tranquil-auth.json"))
	reg := NewRegistry(client, store, Options{
		Now:      clk.Now,
		NewTimer: spy.NewTimer,
	})
	return reg, store
}

func TestRegistry_CreateAndValidate(t *testing.T) {
	clk := newFakeClock()
	spy := &timerSpy{}
	reg, _ := newTestRegistry(t, clk, spy, &fakeRefreshClient{})

	sid, mgr, err := reg.Create(testLoginData())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sid == "" {
		t.Fatal("Create returned empty session ID")
	}
	if !mgr.IsAuthenticated() {
		t.Error("manager should be authenticated after Create")
	}

	s := reg.Validate(sid)
	if s == nil {
		t.Fatal("Validate returned nil for live session")
	}
	if s.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", s.UserID)
	}

	if reg.Validate("nonexistent") != nil {
		t.Error("Validate should return nil for unknown session ID")
	}
}

func TestRegistry_LogoutRemovesSession(t *testing.T) {
	clk := newFakeClock()
	spy := &timerSpy{}
	reg, _ := newTestRegistry(t, clk, spy, &fakeRefreshClient{})

	sid, _, err := reg.Create(testLoginData())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reg.Logout(sid)

	if reg.Validate(sid) != nil {
		t.Error("Validate should return nil after logout")
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
	if got := len(spy.pending()); got != 0 {
		t.Errorf("pending timers after logout = %d, want 0", got)
	}

	// Logout of an unknown ID is a no-op.
	reg.Logout("nonexistent")
}

func TestRegistry_RestoreSkipsUnauthenticated(t *testing.T) {
	clk := newFakeClock()
	spy := &timerSpy{}
	client := &fakeRefreshClient{}
	reg, store := newTestRegistry(t, clk, spy, client)

	ctx := context.Background()
	if err := store.Save(ctx, models.Session{ID: "stale-1", Authenticated: false}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	if err := reg.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if client.callCount() != 0 {
		t.Errorf("refresh calls = %d, want 0 (nothing to restore)", client.callCount())
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
	if len(spy.timers) != 0 {
		t.Errorf("timers created = %d, want 0", len(spy.timers))
	}

	// The stale projection is dropped from the store.
	sessions, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("store still holds %d projections, want 0", len(sessions))
	}
}

func TestRegistry_RestoreArmsValidSession(t *testing.T) {
	clk := newFakeClock()
	spy := &timerSpy{}
	client := &fakeRefreshClient{}
	reg, store := newTestRegistry(t, clk, spy, client)

	ctx := context.Background()
	seed := models.Session{
		ID:            "sid-valid",
		Authenticated: true,
		UserID:        "user-1",
		AccessToken:   "access-0",
		RefreshToken:  "refresh-0",
		TokenExpiry:   clk.Now().Add(30 * time.Minute),
	}
	if err := store.Save(ctx, seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	if err := reg.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if client.callCount() != 0 {
		t.Errorf("refresh calls = %d, want 0 (token still valid)", client.callCount())
	}
	pending := spy.pending()
	if len(pending) != 1 {
		t.Fatalf("pending timers = %d, want 1", len(pending))
	}
	if pending[0].delay != 25*time.Minute {
		t.Errorf("scheduled delay = %v, want 25m (30m remaining minus margin)", pending[0].delay)
	}
	if reg.Validate("sid-valid") == nil {
		t.Error("restored session should validate")
	}
}

func TestRegistry_RestoreRefreshesExpiredSession(t *testing.T) {
	clk := newFakeClock()
	spy := &timerSpy{}
	client := &fakeRefreshClient{}
	reg, store := newTestRegistry(t, clk, spy, client)

	ctx := context.Background()
	seed := models.Session{
		ID:            "sid-expired",
		Authenticated: true,
		UserID:        "user-1",
		AccessToken:   "access-old",
		RefreshToken:  "refresh-old",
		TokenExpiry:   clk.Now().Add(-time.Minute),
	}
	if err := store.Save(ctx, seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	if err := reg.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if client.callCount() != 1 {
		t.Fatalf("refresh calls = %d, want 1", client.callCount())
	}
	s := reg.Validate("sid-expired")
	if s == nil {
		t.Fatal("refreshed session should validate")
	}
	if s.AccessToken != "access-1" {
		t.Errorf("AccessToken = %q, want access-1", s.AccessToken)
	}
	if got := len(spy.pending()); got != 1 {
		t.Errorf("pending timers = %d, want 1", got)
	}
}

func TestRegistry_RestoreDropsUnrefreshableSession(t *testing.T) {
	clk := newFakeClock()
	spy := &timerSpy{}
	client := &fakeRefreshClient{err: context.DeadlineExceeded}
	reg, store := newTestRegistry(t, clk, spy, client)

	ctx := context.Background()
	seed := models.Session{
		ID:            "sid-dead",
		Authenticated: true,
		UserID:        "user-1",
		AccessToken:   "access-old",
		RefreshToken:  "refresh-old",
		TokenExpiry:   clk.Now().Add(-time.Hour),
	}
	if err := store.Save(ctx, seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	if err := reg.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if reg.Validate("sid-dead") != nil {
		t.Error("unrefreshable session should not validate")
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
	sessions, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("store still holds %d projections, want 0", len(sessions))
	}
}

func TestRegistry_RestoreRunsOnce(t *testing.T) {
	clk := newFakeClock()
	spy := &timerSpy{}
	client := &fakeRefreshClient{}
	reg, store := newTestRegistry(t, clk, spy, client)

	ctx := context.Background()
	if err := reg.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	// A projection saved after the first Restore must not be picked up by a
	// second call: bootstrap runs at most once per process lifetime.
	seed := models.Session{
		ID:            "sid-late",
		Authenticated: true,
		AccessToken:   "access-0",
		RefreshToken:  "refresh-0",
		TokenExpiry:   clk.Now().Add(30 * time.Minute),
	}
	if err := store.Save(ctx, seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	if err := reg.Restore(ctx); err != nil {
		t.Fatalf("second Restore failed: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0 (second Restore must be a no-op)", reg.Len())
	}
}

func TestNewToken_UniqueAndDecodable(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatalf("NewToken failed: %v", err)
		}
		if len(tok) != 44 {
			t.Fatalf("token length = %d, want 44 (base64 of 32 bytes)", len(tok))
		}
		if seen[tok] {
			t.Fatal("duplicate token generated")
		}
		seen[tok] = true
	}
}
