package storage

import (
	"context"
	"fmt"
)

// ListProcessed returns the base names of import files that were committed.
func (s *SQLiteStorage) ListProcessed(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listProcessed(ctx, s.db)
}

func (s *SQLiteStorage) listProcessed(ctx context.Context, q querier) ([]string, error) {
	return queryStrings(ctx, q, `SELECT file_name FROM processed ORDER BY id`, "processed files")
}

// MarkProcessed records fileName so it is excluded from future import listings.
func (s *SQLiteStorage) MarkProcessed(ctx context.Context, fileName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(fileName, "fileName"); err != nil {
		return err
	}
	return s.markProcessed(ctx, s.db, fileName)
}

func (s *SQLiteStorage) markProcessed(ctx context.Context, q querier, fileName string) error {
	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO processed (file_name) VALUES (?)`, fileName); err != nil {
		return fmt.Errorf("failed to mark %s processed: %w", fileName, err)
	}
	return nil
}
