package storage

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupCreateAndList(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.CreateReceipt(ctx, "2024-12-24", price("5.59"))
	require.NoError(t, err)
	require.NotZero(t, id)

	bm, err := store.NewBackupManager()
	require.NoError(t, err)

	info, err := bm.Create(ctx, "before-cleanup")
	require.NoError(t, err)
	assert.Equal(t, "before-cleanup", info.ID)
	assert.Equal(t, 1, info.RowCounts["bons"])
	assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
	assert.FileExists(t, info.Path)

	_, err = bm.Create(ctx, "before-cleanup")
	assert.ErrorIs(t, err, ErrBackupExists)

	_, err = bm.Create(ctx, "../escape")
	assert.ErrorIs(t, err, ErrInvalidBackupTag)

	backups, err := bm.List()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, info.Path, backups[0].Path)

	// The snapshot is a usable database.
	db, err := sql.Open("sqlite3", info.Path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM bons`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestAutoBackupPrunes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bm, err := store.NewBackupManager()
	require.NoError(t, err)

	for i := 0; i < maxAutoBackups+2; i++ {
		_, err := bm.create(ctx, fmt.Sprintf("auto-test-%02d", i), true)
		require.NoError(t, err)
	}
	_, err = bm.AutoBackup(ctx, "migrate")
	require.NoError(t, err)

	backups, err := bm.List()
	require.NoError(t, err)
	assert.Len(t, backups, maxAutoBackups)
}

func TestBackupRequiresFile(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.NewBackupManager()
	assert.ErrorIs(t, err, ErrNoBackupDir)
}
