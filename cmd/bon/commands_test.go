package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bon-scanner/internal/config"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/storage"
)

// useTempSettings points the global settings at a fresh database.
func useTempSettings(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	previous := settings
	settings = config.Settings{
		DatabasePath:       filepath.Join(dir, "bon.sqlite"),
		ImportPath:         filepath.Join(dir, "imports"),
		ReconcileTolerance: decimal.NewFromInt(1),
		MatchThreshold:     4,
	}
	t.Cleanup(func() { settings = previous })
	return dir
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedReceipt(t *testing.T) int64 {
	t.Helper()
	ctx := context.Background()
	store, err := initStorage(ctx)
	require.NoError(t, err)
	defer closeStorage(store)

	cat, err := store.CreateCategory(ctx, "Dairy")
	require.NoError(t, err)
	milk, err := store.CreateProduct(ctx, cat.ID, "Milch")
	require.NoError(t, err)
	id, err := store.CreateReceipt(ctx, "2024-12-24", decimal.RequireFromString("2.49"))
	require.NoError(t, err)
	require.NoError(t, store.CreateEntry(ctx, id, milk.ID, decimal.RequireFromString("2.49")))
	return id
}

func TestCommandTree(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"tui", "scan", "receipts", "categories", "blacklist", "export", "migrate", "backup", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestCategoriesCommands(t *testing.T) {
	useTempSettings(t)

	out, err := execute(t, categoriesCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No categories yet")

	out, err = execute(t, categoriesCmd(), "add", "Frozen", "Food")
	require.NoError(t, err)
	assert.Contains(t, out, `Category "Frozen Food" ready`)

	seedReceipt(t)
	out, err = execute(t, categoriesCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Frozen Food")
	assert.Contains(t, out, "Dairy")
	assert.Contains(t, out, "2.49")
}

func TestBlacklistCommands(t *testing.T) {
	useTempSettings(t)

	out, err := execute(t, blacklistCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")

	_, err = execute(t, blacklistCmd(), "add", "Kartenzahlung")
	require.NoError(t, err)

	out, err = execute(t, blacklistCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Kartenzahlung")
}

func TestReceiptsCommands(t *testing.T) {
	useTempSettings(t)
	id := seedReceipt(t)

	out, err := execute(t, receiptsCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-12-24")

	out, err = execute(t, receiptsCmd(), "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Milch")
	assert.Contains(t, out, model.SummaryTotalLabel)

	_, err = execute(t, receiptsCmd(), "hide", "--yes", "1")
	require.NoError(t, err)

	out, err = execute(t, receiptsCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No receipts")

	out, err = execute(t, receiptsCmd(), "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "hidden")
	assert.Equal(t, int64(1), id)

	_, err = execute(t, receiptsCmd(), "show", "abc")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := useTempSettings(t)
	seedReceipt(t)

	csvPath := filepath.Join(dir, "bons.csv")
	_, err := execute(t, exportCmd(), "--output", csvPath)
	require.NoError(t, err)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Milch", records[1][3])

	xlsxPath := filepath.Join(dir, "bons.xlsx")
	_, err = execute(t, exportCmd(), "-o", xlsxPath)
	require.NoError(t, err)
	assert.FileExists(t, xlsxPath)

	_, err = execute(t, exportCmd(), "--format", "pdf", "-o", "-")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestMigrateCommand(t *testing.T) {
	dir := useTempSettings(t)

	out, err := execute(t, migrateCmd(), "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")
	assert.Contains(t, out, fmt.Sprintf("Latest version:  %d", storage.ExpectedSchemaVersion))

	out, err = execute(t, migrateCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated database")
	assert.NoDirExists(t, filepath.Join(dir, "backups"), "a fresh database is not backed up")

	out, err = execute(t, migrateCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestBackupCommands(t *testing.T) {
	useTempSettings(t)
	seedReceipt(t)

	out, err := execute(t, backupCmd(), "create", "--tag", "before-cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Created backup before-cleanup")

	out, err = execute(t, backupCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "before-cleanup")
	assert.Contains(t, out, "manual")

	_, err = execute(t, backupCmd(), "delete", "before-cleanup")
	require.NoError(t, err)

	out, err = execute(t, backupCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups")
}

func TestScanWithoutImages(t *testing.T) {
	dir := useTempSettings(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "imports"), 0750))

	var out, errOut bytes.Buffer
	require.NoError(t, runScan(context.Background(), &out, &errOut, ""))
	assert.Contains(t, out.String(), "No new images")
}

func TestGuessTags(t *testing.T) {
	lines := guessTags([]model.OcrLine{
		{Text: "24.12.2024 10:15", Tag: model.TagEntry},
		{Text: "Milch 2,49", Tag: model.TagEntry},
		{Text: "Zwischensumme 2,49", Tag: model.TagEntry},
		{Text: "SUMME 2,49", Tag: model.TagEntry},
		{Text: "25.12.2024 11:00", Tag: model.TagEntry},
	})

	assert.Equal(t, model.TagDate, lines[0].Tag)
	assert.Equal(t, model.TagEntry, lines[1].Tag)
	assert.Equal(t, model.TagEntry, lines[2].Tag)
	assert.Equal(t, model.TagSum, lines[3].Tag)
	assert.Equal(t, model.TagEntry, lines[4].Tag)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{arg: "7", want: 7},
		{arg: "0", wantErr: true},
		{arg: "-1", wantErr: true},
		{arg: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseID(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.5 KB", formatFileSize(1536))
	assert.Equal(t, "2.0 MB", formatFileSize(2*1024*1024))
}

func TestReceiptRowFlagsMismatch(t *testing.T) {
	useTempSettings(t)
	r := model.Receipt{
		ID:      3,
		Date:    "2024-12-24",
		Price:   decimal.RequireFromString("9.99"),
		Entries: []model.ReceiptEntry{{Product: "Milch", Price: decimal.RequireFromString("2.49")}},
	}
	row := receiptRow(r)
	assert.Equal(t, "3", row[0])
	assert.Contains(t, row[4], "totals differ")
}
