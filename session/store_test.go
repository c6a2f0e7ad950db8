// ABOUTME: Tests for the file-backed session projection store
// ABOUTME: Round-trips, deletes, and tolerance for missing/empty files

package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

func testSession(id string) models.Session {
	return models.Session{
		ID:            id,
		Authenticated: true,
		UserID:        "user-1",
		Username:      "amina",
		Role:          models.RoleManager,
		AccessToken:   "access-0",
		RefreshToken:  "refresh-0",
		TokenExpiry:   time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC),
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "tranquil-auth.json"))

	if err := store.Save(ctx, testSession("sid-1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, testSession("sid-2")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sessions, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("LoadAll returned %d sessions, want 2", len(sessions))
	}

	var found *models.Session
	for i := range sessions {
		if sessions[i].ID == "sid-1" {
			found = &sessions[i]
		}
	}
	if found == nil {
		t.Fatal("sid-1 not found after round trip")
	}
	if found.AccessToken != "access-0" || found.Role != models.RoleManager {
		t.Errorf("projection fields lost: %+v", found)
	}
	if !found.TokenExpiry.Equal(testSession("sid-1").TokenExpiry) {
		t.Errorf("TokenExpiry = %v, want %v", found.TokenExpiry, testSession("sid-1").TokenExpiry)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "tranquil-auth.json"))

	if err := store.Save(ctx, testSession("sid-1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	updated := testSession("sid-1")
	updated.AccessToken = "access-1"
	if err := store.Save(ctx, updated); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sessions, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("LoadAll returned %d sessions, want 1", len(sessions))
	}
	if sessions[0].AccessToken != "access-1" {
		t.Errorf("AccessToken = %q, want access-1", sessions[0].AccessToken)
	}
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "tranquil-auth.json"))

	if err := store.Save(ctx, testSession("sid-1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Deleting a missing ID is a no-op.
	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	sessions, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("LoadAll returned %d sessions, want 0", len(sessions))
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))

	sessions, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll on missing file failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("LoadAll returned %d sessions, want 0", len(sessions))
	}
}

func TestFileStore_SaveRejectsEmptyID(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "tranquil-auth.json"))

	if err := store.Save(ctx, models.Session{}); err == nil {
		t.Error("Save should reject a session without an ID")
	}
}

func TestFileStore_NamespacedLayout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tranquil-auth.json")
	store := NewFileStore(path)

	if err := store.Save(ctx, testSession("sid-1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	if !strings.Contains(string(data), `"`+Namespace+`"`) {
		t.Errorf("store file missing %q namespace key:\n%s", Namespace, data)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tranquil-auth.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store := NewFileStore(path)

	if _, err := store.LoadAll(ctx); err == nil {
		t.Error("LoadAll should report a corrupt store file")
	}
}
