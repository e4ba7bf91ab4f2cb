package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/bon-scanner/internal/model"
)

// ListProducts returns the product catalog in creation order.
func (s *SQLiteStorage) ListProducts(ctx context.Context) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listProducts(ctx, s.db)
}

func (s *SQLiteStorage) listProducts(ctx context.Context, q querier) ([]model.Product, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, category_id, name FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetProduct looks up a product by category and name, or returns nil if it does not exist.
func (s *SQLiteStorage) GetProduct(ctx context.Context, categoryID int64, name string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getProduct(ctx, s.db, categoryID, name)
}

func (s *SQLiteStorage) getProduct(ctx context.Context, q querier, categoryID int64, name string) (*model.Product, error) {
	var p model.Product
	err := q.QueryRowContext(ctx, `
		SELECT id, category_id, name
		FROM products
		WHERE category_id = ? AND name = ?`, categoryID, name).Scan(&p.ID, &p.CategoryID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return &p, nil
}

// CreateProduct adds a product to the catalog under categoryID.
func (s *SQLiteStorage) CreateProduct(ctx context.Context, categoryID int64, name string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.createProduct(ctx, s.db, categoryID, name)
}

func (s *SQLiteStorage) createProduct(ctx context.Context, q querier, categoryID int64, name string) (*model.Product, error) {
	result, err := q.ExecContext(ctx, `INSERT INTO products (category_id, name) VALUES (?, ?)`, categoryID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get product ID: %w", err)
	}

	slog.Debug("created product", "name", name, "id", id, "category_id", categoryID)
	return &model.Product{ID: id, CategoryID: categoryID, Name: name}, nil
}
