package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ListBlacklist returns the substrings that exclude OCR lines.
func (s *SQLiteStorage) ListBlacklist(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listBlacklist(ctx, s.db)
}

func (s *SQLiteStorage) listBlacklist(ctx context.Context, q querier) ([]string, error) {
	return queryStrings(ctx, q, `SELECT entry FROM blacklist ORDER BY id`, "blacklist")
}

// AddBlacklistEntry stores a new exclusion substring. Adding an existing entry is a no-op.
func (s *SQLiteStorage) AddBlacklistEntry(ctx context.Context, entry string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(entry, "entry"); err != nil {
		return err
	}
	return s.addBlacklistEntry(ctx, s.db, entry)
}

func (s *SQLiteStorage) addBlacklistEntry(ctx context.Context, q querier, entry string) error {
	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO blacklist (entry) VALUES (?)`, entry); err != nil {
		return fmt.Errorf("failed to add blacklist entry: %w", err)
	}
	slog.Info("added blacklist entry", "entry", entry)
	return nil
}

func queryStrings(ctx context.Context, q querier, query, what string) ([]string, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}

	return values, nil
}
