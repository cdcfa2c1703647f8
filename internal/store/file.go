package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

// FileStore keeps the collection in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the JSON document at path,
// creating its parent directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the backing document.
func (s *FileStore) Path() string {
	return s.path
}

// ReadAll loads the collection from disk on every call.
func (s *FileStore) ReadAll(ctx context.Context) (models.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Collection{}, nil
		}
		return nil, ioErr("read", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return models.Collection{}, nil
	}

	var tasks models.Collection
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, ioErr("decode", err)
	}
	return normalize(tasks), nil
}

// WriteAll writes the collection to a temp file in the same directory and
// renames it over the document, so readers see either the old or the new
// collection and never a truncated one.
func (s *FileStore) WriteAll(ctx context.Context, tasks models.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(normalize(tasks), "", "  ")
	if err != nil {
		return ioErr("encode", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return ioErr("create temp", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return ioErr("write", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return ioErr("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return ioErr("close", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return ioErr("chmod", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return ioErr("rename", err)
	}
	committed = true
	return nil
}

// Ping verifies the data directory is accessible.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return ioErr("stat", err)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}
