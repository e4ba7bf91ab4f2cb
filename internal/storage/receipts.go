package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/service"
)

// ListReceipts returns receipts newest first with their entries loaded.
// Hidden receipts are skipped unless the filter asks for them.
func (s *SQLiteStorage) ListReceipts(ctx context.Context, filter service.ReceiptFilter) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listReceipts(ctx, s.db, filter)
}

func (s *SQLiteStorage) listReceipts(ctx context.Context, q querier, filter service.ReceiptFilter) ([]model.Receipt, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT id, date, price, hidden
		FROM bons`)

	var args []any
	if !filter.IncludeHidden {
		query.WriteString(` WHERE hidden = 0`)
	}
	query.WriteString(` ORDER BY date DESC, id DESC`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var receipts []model.Receipt
	index := make(map[int64]int)
	for rows.Next() {
		var r model.Receipt
		if err := rows.Scan(&r.ID, &r.Date, &r.Price, &r.Hidden); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		index[r.ID] = len(receipts)
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	if len(receipts) == 0 {
		return receipts, nil
	}

	entries, err := s.listEntries(ctx, q, 0)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if i, ok := index[e.receiptID]; ok {
			receipts[i].Entries = append(receipts[i].Entries, e.ReceiptEntry)
		}
	}

	slog.Debug("retrieved receipts", "count", len(receipts), "include_hidden", filter.IncludeHidden)
	return receipts, nil
}

// GetReceipt returns a single receipt, hidden or not.
func (s *SQLiteStorage) GetReceipt(ctx context.Context, id int64) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getReceipt(ctx, s.db, id)
}

func (s *SQLiteStorage) getReceipt(ctx context.Context, q querier, id int64) (*model.Receipt, error) {
	var r model.Receipt
	err := q.QueryRowContext(ctx, `
		SELECT id, date, price, hidden
		FROM bons
		WHERE id = ?`, id).Scan(&r.ID, &r.Date, &r.Price, &r.Hidden)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt: %w", err)
	}

	entries, err := s.listEntries(ctx, q, id)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		r.Entries = append(r.Entries, e.ReceiptEntry)
	}

	return &r, nil
}

// HideReceipt soft-deletes a receipt so it no longer shows up in listings.
func (s *SQLiteStorage) HideReceipt(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.hideReceipt(ctx, s.db, id)
}

func (s *SQLiteStorage) hideReceipt(ctx context.Context, q querier, id int64) error {
	result, err := q.ExecContext(ctx, `UPDATE bons SET hidden = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to hide receipt: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt %d: %w", id, common.ErrNotFound)
	}

	slog.Info("hid receipt", "id", id)
	return nil
}

// CreateReceipt inserts a receipt header and returns its id.
func (s *SQLiteStorage) CreateReceipt(ctx context.Context, date string, price decimal.Decimal) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.createReceipt(ctx, s.db, date, price)
}

func (s *SQLiteStorage) createReceipt(ctx context.Context, q querier, date string, price decimal.Decimal) (int64, error) {
	result, err := q.ExecContext(ctx, `INSERT INTO bons (date, price) VALUES (?, ?)`, date, price.InexactFloat64())
	if err != nil {
		return 0, fmt.Errorf("failed to create receipt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get receipt ID: %w", err)
	}

	slog.Debug("created receipt", "id", id, "date", date, "price", price.StringFixed(2))
	return id, nil
}

// CreateEntry links a product with its price to a receipt.
func (s *SQLiteStorage) CreateEntry(ctx context.Context, receiptID, productID int64, price decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.createEntry(ctx, s.db, receiptID, productID, price)
}

func (s *SQLiteStorage) createEntry(ctx context.Context, q querier, receiptID, productID int64, price decimal.Decimal) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO entries (bon_id, product_id, price)
		VALUES (?, ?, ?)`, receiptID, productID, price.InexactFloat64())
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

type receiptEntryRow struct {
	model.ReceiptEntry
	receiptID int64
}

// listEntries loads entries of one receipt, or of all receipts when receiptID is 0.
func (s *SQLiteStorage) listEntries(ctx context.Context, q querier, receiptID int64) ([]receiptEntryRow, error) {
	query := `
		SELECT e.bon_id, c.name, p.name, e.price
		FROM entries e
		JOIN products p ON p.id = e.product_id
		JOIN categories c ON c.id = p.category_id`

	var args []any
	if receiptID != 0 {
		query += ` WHERE e.bon_id = ?`
		args = append(args, receiptID)
	}
	query += ` ORDER BY e.id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []receiptEntryRow
	for rows.Next() {
		var e receiptEntryRow
		if err := rows.Scan(&e.receiptID, &e.Category, &e.Product, &e.Price); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}
