// Package backend opens the configured ledger implementation.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"purse/internal/storage"
	"purse/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Ledger:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if config.DataFile == "" {
		f.logger.InfoContext(ctx, "Initialized in-memory backend without persistence")
		store := memory.New()
		return &BackendResult{Ledger: store, Cleanup: store.Close}, nil
	}

	store, err := memory.Open(config.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized memory backend", "data_file", config.DataFile)

	return &BackendResult{
		Ledger:  store,
		Cleanup: store.Close,
	}, nil
}
