package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps one JSON document per session id under a directory.
// Writes go through a temp file, fsync, and rename, so a session mutation
// that has returned is on disk before the HTTP response goes out.
type FileStore struct {
	dir string
	ttl time.Duration
}

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session: create dir: %w", err)
	}
	return &FileStore{dir: dir, ttl: ttl}, nil
}

// path maps a session id onto its file. Ids come from uuid.New, but path
// separators are stripped anyway so a forged cookie cannot escape dir.
func (s *FileStore) path(sessionID string) string {
	cleaned := strings.NewReplacer("/", "", "\\", "", "..", "").Replace(sessionID)
	return filepath.Join(s.dir, cleaned+".json")
}

func (s *FileStore) load(sessionID string) (*document, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		// Corrupt document: treat as no session, drop the file.
		os.Remove(s.path(sessionID))
		return nil, ErrNoSession
	}
	if time.Now().After(doc.ExpiresAt) {
		os.Remove(s.path(sessionID))
		return nil, ErrNoSession
	}
	return &doc, nil
}

// write persists the document durably: temp file, Sync, atomic rename.
func (s *FileStore) write(sessionID string, doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "session-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(sessionID))
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, sessionID string) (*Member, error) {
	doc, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	return doc.Member, nil
}

// SetMember implements Store. The session is created on first write and
// the TTL restarts.
func (s *FileStore) SetMember(ctx context.Context, sessionID string, member Member) error {
	doc := document{
		Member:    &member,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	return s.write(sessionID, doc)
}

// ClearMember implements Store.
func (s *FileStore) ClearMember(ctx context.Context, sessionID string) error {
	doc, err := s.load(sessionID)
	if err != nil {
		return err
	}
	doc.Member = nil
	doc.ExpiresAt = time.Now().Add(s.ttl)
	return s.write(sessionID, *doc)
}

// Destroy implements Store.
func (s *FileStore) Destroy(ctx context.Context, sessionID string) error {
	err := os.Remove(s.path(sessionID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
