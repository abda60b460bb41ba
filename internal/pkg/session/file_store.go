package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

const fileName = "session.json"

// FileStore keeps both entries in one JSON document under Dir. Writes go to
// a temp file that is renamed into place, so readers see either the old pair
// or the new pair.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) path() string { return filepath.Join(s.dir, fileName) }

func (s *FileStore) Save(_ context.Context, user *models.User, token string) error {
	entries, err := encodeEntries(user, token)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	s.logger.Debug("Session saved", zap.String("path", s.path()), zap.String("user_id", user.ID))
	return nil
}

func (s *FileStore) Load(_ context.Context) (*models.User, string, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", models.ErrNoSession
	}
	if err != nil {
		return nil, "", fmt.Errorf("read session file: %w", err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("Session file unreadable, treating as signed out",
			zap.String("path", s.path()), zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", models.ErrNoSession, err)
	}
	return decodeEntries(entries)
}

func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	s.logger.Debug("Session cleared", zap.String("path", s.path()))
	return nil
}
