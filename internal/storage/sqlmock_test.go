package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bon-scanner/internal/service"
)

func TestTransactionSurfacesFailuresForRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := NewSQLiteStorageFromDB(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bons").
		WithArgs("2024-12-24", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO entries").
		WithArgs(int64(7), int64(3), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	id, err := tx.CreateReceipt(ctx, "2024-12-24", price("5.59"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	err = tx.CreateEntry(ctx, id, 3, price("2.49"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create entry")

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReceiptsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := NewSQLiteStorageFromDB(db)
	mock.ExpectQuery("SELECT id, date, price, hidden").WillReturnError(errors.New("database is locked"))

	_, err = store.ListReceipts(context.Background(), service.ReceiptFilter{})
	assert.ErrorContains(t, err, "failed to query receipts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryReturnsInsertedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := NewSQLiteStorageFromDB(db)
	mock.ExpectQuery("SELECT id, name FROM categories WHERE name").
		WithArgs("Dairy").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Dairy").
		WillReturnResult(sqlmock.NewResult(12, 1))

	cat, err := store.CreateCategory(context.Background(), "Dairy")
	require.NoError(t, err)
	assert.Equal(t, int64(12), cat.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
