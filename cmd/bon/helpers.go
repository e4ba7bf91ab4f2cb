package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/bon-scanner/internal/engine"
	"github.com/Veraticus/bon-scanner/internal/imports"
	"github.com/Veraticus/bon-scanner/internal/storage"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

func newImportDirectory(store *storage.SQLiteStorage) *imports.Directory {
	return imports.NewDirectory(settings.ImportPath, store)
}

func newEngine() *engine.Engine {
	return engine.NewWithConfig(engine.Config{
		ReconcileTolerance: settings.ReconcileTolerance,
		MatchThreshold:     settings.MatchThreshold,
	})
}
