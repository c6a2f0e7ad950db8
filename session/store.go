// ABOUTME: Persistence for session projections under the tranquil-auth namespace
// ABOUTME: Store interface plus the file-backed implementation

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// Namespace is the fixed key sessions are persisted under.
const Namespace = "tranquil-auth"

// Store persists session projections so a restart can reconstruct
// authentication state without re-login. The live timer handle is never
// part of the projection.
type Store interface {
	Save(ctx context.Context, s models.Session) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]models.Session, error)
}

// fileDoc is the on-disk layout: one JSON document with every projection
// under the tranquil-auth key.
type fileDoc struct {
	Sessions map[string]models.Session `json:"tranquil-auth"`
}

// FileStore keeps all projections in a single JSON file. Suitable for a
// single-instance deployment; use RedisStore when running more than one.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store writing to the given path. The file is
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(ctx context.Context, s models.Session) error {
	if s.ID == "" {
		return fmt.Errorf("session has no id")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc.Sessions[s.ID] = s
	return f.write(doc)
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Sessions[id]; !ok {
		return nil
	}
	delete(doc.Sessions, id)
	return f.write(doc)
}

func (f *FileStore) LoadAll(ctx context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	sessions := make([]models.Session, 0, len(doc.Sessions))
	for _, s := range doc.Sessions {
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (f *FileStore) read() (fileDoc, error) {
	doc := fileDoc{Sessions: make(map[string]models.Session)}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse session file: %w", err)
	}
	if doc.Sessions == nil {
		doc.Sessions = make(map[string]models.Session)
	}
	return doc, nil
}

func (f *FileStore) write(doc fileDoc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	// Write-then-rename so a crash mid-write never corrupts the store.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
