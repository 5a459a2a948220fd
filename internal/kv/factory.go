package kv

import (
	"fmt"
	"log/slog"
)

// BackendType selects the Store implementation.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

func (bt BackendType) String() string { return string(bt) }

// CleanupFunc releases resources held by a Store.
type CleanupFunc func() error

// Open creates the configured Store and returns it with its cleanup
// function (nil for stores that hold no resources).
func Open(logger *slog.Logger, backend BackendType, sqlitePath string) (Store, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch backend {
	case SQLiteBackend:
		store, err := NewSQLite(sqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite storage", "db_path", sqlitePath)
		return store, store.Close, nil
	case MemoryBackend:
		logger.Info("Initialized in-memory storage")
		return NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("invalid storage backend: %s", backend)
	}
}
