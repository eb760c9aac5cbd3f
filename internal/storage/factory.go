package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/casewatch/internal/colors"
	"github.com/cristianoliveira/casewatch/internal/config"
	"github.com/cristianoliveira/casewatch/internal/storage/sqlite"
)

const (
	// BackendSQLite selects SQLite-backed storage.
	BackendSQLite = "sqlite"
	// BackendFile selects a single atomically rewritten JSON file.
	BackendFile = "file"
	// BackendMemory selects process memory; nothing survives a restart.
	BackendMemory = "memory"

	stateDBFileName   = "state.db"
	stateJSONFileName = "state.json"
)

var _ KV = (*sqlite.Storage)(nil)
var _ KV = (*FileKV)(nil)
var _ KV = (*MemoryKV)(nil)

// NewFromConfig creates the store selected by storage_backend under state_dir.
func NewFromConfig() (KV, error) {
	return NewForBackend(config.Get("storage_backend", BackendSQLite), config.Get("state_dir", ""))
}

// NewForBackend creates a store for the named backend rooted at stateDir.
// A sqlite store that cannot be opened falls back to the file backend.
func NewForBackend(backend, stateDir string) (KV, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == BackendMemory {
		return NewMemoryKV(), nil
	}
	if strings.TrimSpace(stateDir) == "" {
		return nil, fmt.Errorf("storage: state_dir not configured")
	}

	switch backend {
	case "", BackendSQLite:
		s, err := sqlite.NewStorage(filepath.Join(stateDir, stateDBFileName))
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to file: %v", err))
			return NewFileKV(filepath.Join(stateDir, stateJSONFileName))
		}
		return s, nil
	case BackendFile:
		return NewFileKV(filepath.Join(stateDir, stateJSONFileName))
	default:
		colors.Warning(fmt.Sprintf("unknown storage backend '%s', falling back to sqlite", backend))
		return NewForBackend(BackendSQLite, stateDir)
	}
}
