// Package session provides the SessionRepository implementations: a file
// slot for ordinary per-user installs, a Redis slot for shared or kiosk
// deployments, and an in-memory slot for tests and ephemeral runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/smarthomeo/fxclient/internal/core/domain"
)

// DefaultFilePath returns the per-user session file location,
// <os config dir>/fxclient/session.json.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "fxclient", "session.json"), nil
}

// FileStore persists the session slot as one well-known JSON file. Writes go
// through a temp file rename so a crash can never leave a half-written
// session behind.
type FileStore struct {
	path string
	log  zerolog.Logger
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the slot. A missing file, unparseable contents or a record with
// missing identity fields all yield (nil, nil): malformed persisted state is
// logged and discarded, never surfaced.
func (s *FileStore) Load(_ context.Context) (*domain.Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("discarding malformed session file")
		return nil, nil
	}
	if !sess.Complete() {
		s.log.Warn().Str("path", s.path).Msg("discarding incomplete session file")
		return nil, nil
	}
	return &sess, nil
}

// Save writes the session in full, replacing any previous record.
func (s *FileStore) Save(_ context.Context, sess *domain.Session) error {
	if !sess.Complete() {
		return domain.ErrSessionIncomplete
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear deletes the slot. Clearing an already empty slot is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
