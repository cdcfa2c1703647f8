// Package store persists the task collection as one JSON document.
//
// Every backend implements full-collection replace: ReadAll returns the whole
// collection and WriteAll overwrites it unconditionally. No backend caches the
// collection in memory and none offers locking, so the last writer wins.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/config"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

// ErrIO marks failures reading or writing the backing document.
var ErrIO = errors.New("store I/O error")

// Store is the read-all / write-all contract shared by every backend.
type Store interface {
	// ReadAll returns the full collection. A missing document is an empty collection.
	ReadAll(ctx context.Context) (models.Collection, error)
	// WriteAll atomically replaces the full collection.
	WriteAll(ctx context.Context, tasks models.Collection) error
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the backend selected by cfg.Backend.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Path)
	case config.BackendSQLite:
		return NewSQLite(cfg.Path)
	case config.BackendPostgres:
		return NewPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

func normalize(tasks models.Collection) models.Collection {
	if tasks == nil {
		return models.Collection{}
	}
	return tasks
}
