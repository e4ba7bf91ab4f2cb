package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxAutoBackups bounds how many automatic backups are kept.
const maxAutoBackups = 5

// Backup errors.
var (
	ErrBackupExists     = errors.New("backup already exists")
	ErrInvalidBackupTag = errors.New("invalid backup tag")
	ErrNoBackupDir      = errors.New("in-memory databases cannot be backed up")
)

// BackupInfo describes one database snapshot on disk.
type BackupInfo struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Path          string         `json:"-"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// BackupManager writes consistent copies of the database next to it.
type BackupManager struct {
	storage *SQLiteStorage
	dir     string
}

// NewBackupManager creates a backup manager storing snapshots in a "backups"
// directory beside the database file.
func (s *SQLiteStorage) NewBackupManager() (*BackupManager, error) {
	if s.dbPath == "" || s.dbPath == ":memory:" {
		return nil, ErrNoBackupDir
	}

	dir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &BackupManager{storage: s, dir: dir}, nil
}

// Create snapshots the database under tag. An empty tag gets a timestamped name.
func (bm *BackupManager) Create(ctx context.Context, tag string) (*BackupInfo, error) {
	return bm.create(ctx, tag, false)
}

// AutoBackup snapshots the database before a risky operation and prunes old
// automatic snapshots.
func (bm *BackupManager) AutoBackup(ctx context.Context, prefix string) (*BackupInfo, error) {
	tag := fmt.Sprintf("auto-%s-%s", prefix, time.Now().Format("2006-01-02-150405"))
	info, err := bm.create(ctx, tag, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create automatic backup: %w", err)
	}

	if err := bm.pruneAuto(); err != nil {
		slog.Warn("failed to prune old automatic backups", "error", err)
	}

	return info, nil
}

func (bm *BackupManager) create(ctx context.Context, tag string, auto bool) (*BackupInfo, error) {
	if tag == "" {
		tag = fmt.Sprintf("backup-%s", time.Now().Format("2006-01-02-150405"))
	}
	if strings.ContainsAny(tag, `/\'";`) || strings.Contains(tag, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackupTag, tag)
	}

	path := filepath.Join(bm.dir, tag+".sqlite")
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, tag)
	}

	version, err := bm.storage.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := bm.rowCounts(ctx)
	if err != nil {
		return nil, err
	}

	// VACUUM INTO writes a consistent copy even while WAL frames are pending.
	// #nosec G201 - tag is validated above and dir comes from the configured database path
	if _, err := bm.storage.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", path)); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	info := &BackupInfo{
		ID:            tag,
		Path:          path,
		CreatedAt:     time.Now(),
		FileSize:      stat.Size(),
		RowCounts:     counts,
		SchemaVersion: version,
		IsAuto:        auto,
	}

	if err := bm.saveMetadata(info); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Error("failed to remove backup after metadata failure", "error", rmErr)
		}
		return nil, err
	}

	slog.Info("created backup", "id", tag, "size", info.FileSize, "auto", auto)
	return info, nil
}

// List returns all backups, newest first.
func (bm *BackupManager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(bm.dir, entry.Name())) // #nosec G304 - listing our own directory
		if err != nil {
			slog.Warn("skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}

		var info BackupInfo
		if err := json.Unmarshal(data, &info); err != nil {
			slog.Warn("skipping corrupt backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		info.Path = filepath.Join(bm.dir, info.ID+".sqlite")
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Delete removes a backup and its metadata.
func (bm *BackupManager) Delete(id string) error {
	for _, name := range []string{id + ".sqlite", id + ".meta.json"} {
		if err := os.Remove(filepath.Join(bm.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete backup %s: %w", id, err)
		}
	}
	return nil
}

func (bm *BackupManager) pruneAuto() error {
	backups, err := bm.List()
	if err != nil {
		return err
	}

	kept := 0
	for _, b := range backups {
		if !b.IsAuto {
			continue
		}
		kept++
		if kept > maxAutoBackups {
			if err := bm.Delete(b.ID); err != nil {
				slog.Debug("failed to delete old automatic backup", "id", b.ID, "error", err)
			}
		}
	}
	return nil
}

func (bm *BackupManager) rowCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range []string{"bons", "entries", "products", "categories"} {
		var n int
		// #nosec G202 - table names are constants
		if err := bm.storage.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (bm *BackupManager) saveMetadata(info *BackupInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(bm.dir, info.ID+".meta.json"), data, 0600); err != nil {
		return fmt.Errorf("failed to write backup metadata: %w", err)
	}
	return nil
}
