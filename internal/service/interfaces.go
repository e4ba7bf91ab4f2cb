// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/bon-scanner/internal/model"
)

// ReceiptFilter defines filtering options for receipt queries.
type ReceiptFilter struct {
	IncludeHidden bool
	Limit         int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Receipt operations
	ListReceipts(ctx context.Context, filter ReceiptFilter) ([]model.Receipt, error)
	GetReceipt(ctx context.Context, id int64) (*model.Receipt, error)
	HideReceipt(ctx context.Context, id int64) error
	CreateReceipt(ctx context.Context, date string, price decimal.Decimal) (int64, error)
	CreateEntry(ctx context.Context, receiptID, productID int64, price decimal.Decimal) error

	// Category operations
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)

	// Product operations
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, categoryID int64, name string) (*model.Product, error)
	CreateProduct(ctx context.Context, categoryID int64, name string) (*model.Product, error)

	// Blacklist operations
	ListBlacklist(ctx context.Context) ([]string, error)
	AddBlacklistEntry(ctx context.Context, entry string) error

	// Processed import files
	ListProcessed(ctx context.Context) ([]string, error)
	MarkProcessed(ctx context.Context, fileName string) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
