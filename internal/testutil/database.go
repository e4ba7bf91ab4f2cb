// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/service"
	"github.com/Veraticus/bon-scanner/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// CatalogSeed is one category and the products filed under it.
type CatalogSeed struct {
	Category string
	Products []string
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Catalog        []CatalogSeed
	Blacklist      []string
	Processed      []string
	SkipMigrations bool
}

// SetupTestDB creates a migrated database in a temporary directory.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options.
//
// Example:
//
//	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
//		Catalog: []testutil.CatalogSeed{{Category: "Dairy", Products: []string{"Milch", "Butter"}}},
//	})
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "bon.sqlite"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	for _, seed := range opts.Catalog {
		cat, err := store.CreateCategory(ctx, seed.Category)
		if err != nil {
			t.Fatalf("failed to seed category %q: %v", seed.Category, err)
		}
		for _, name := range seed.Products {
			if _, err := store.CreateProduct(ctx, cat.ID, name); err != nil {
				t.Fatalf("failed to seed product %q: %v", name, err)
			}
		}
	}

	for _, entry := range opts.Blacklist {
		if err := store.AddBlacklistEntry(ctx, entry); err != nil {
			t.Fatalf("failed to seed blacklist entry %q: %v", entry, err)
		}
	}

	for _, name := range opts.Processed {
		if err := store.MarkProcessed(ctx, name); err != nil {
			t.Fatalf("failed to seed processed file %q: %v", name, err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustCategory returns the category with the given name or fails the test.
func (db *TestDB) MustCategory(name string) model.Category {
	db.t.Helper()
	cat, err := db.Storage.GetCategoryByName(context.Background(), name)
	if err != nil {
		db.t.Fatalf("failed to get category %q: %v", name, err)
	}
	if cat == nil {
		db.t.Fatalf("category %q does not exist", name)
	}
	return *cat
}

// MustReceipts lists every receipt including hidden ones or fails the test.
func (db *TestDB) MustReceipts() []model.Receipt {
	db.t.Helper()
	receipts, err := db.Storage.ListReceipts(context.Background(), service.ReceiptFilter{IncludeHidden: true})
	if err != nil {
		db.t.Fatalf("failed to list receipts: %v", err)
	}
	return receipts
}

// WithTransaction executes the given function within a database transaction.
// The transaction is automatically rolled back after the function completes.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	ctx := context.Background()
	tx, err := db.Storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
