package backend

import (
	"context"
	"fmt"

	"timesheet/internal/log"
	"timesheet/internal/memory"
	"timesheet/internal/storage"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend validates cfg and opens the backend it names. SQLite
// databases are migrated to the latest schema on open.
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Type == MemoryBackend {
		return f.openMemory(ctx, cfg), nil
	}
	return f.openSQLite(ctx, cfg)
}

func (f *DefaultFactory) openSQLite(ctx context.Context, cfg Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite backend: %w", err)
	}

	version, dirty, err := storage.SchemaVersion(cfg.SQLiteDBPath)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to read schema version", log.FieldError, err)
	}
	f.logger.InfoContext(ctx, "Opened SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"schema_version", version,
		"schema_dirty", dirty)

	return &BackendResult{Backend: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) openMemory(ctx context.Context, cfg Config) *BackendResult {
	dir := cfg.DataDirectory
	if dir == "" {
		dir = "data"
	}
	store := memory.NewFromFiles(dir)
	f.logger.InfoContext(ctx, "Opened memory backend", "data_directory", dir)
	return &BackendResult{Backend: store}
}
