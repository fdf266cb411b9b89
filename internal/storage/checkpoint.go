package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/finance-flex/internal/service"
)

// CheckpointManager snapshots the database file and restores snapshots.
type CheckpointManager struct {
	db             *sql.DB
	dbPath         string
	checkpointsDir string
}

// CheckpointMetadata contains metadata about a checkpoint.
type CheckpointMetadata struct {
	CreatedAt     time.Time      `json:"created_at"`
	ItemCounts    map[string]int `json:"item_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// Common errors.
var (
	ErrCheckpointNotFound  = errors.New("checkpoint not found")
	ErrCheckpointCorrupted = errors.New("checkpoint integrity check failed")
	ErrCheckpointExists    = errors.New("checkpoint already exists")
	ErrInvalidCheckpointID = errors.New("invalid checkpoint id: cannot contain path separators")
)

// NewCheckpointManager creates a new checkpoint manager storing snapshots
// next to the database in a checkpoints directory.
func NewCheckpointManager(db *sql.DB, dbPath string) (*CheckpointManager, error) {
	checkpointsDir := filepath.Join(filepath.Dir(dbPath), "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &CheckpointManager{
		db:             db,
		dbPath:         dbPath,
		checkpointsDir: checkpointsDir,
	}, nil
}

// Create snapshots the database. An empty tag generates one from the clock.
func (cm *CheckpointManager) Create(ctx context.Context, tag, description string, isAuto bool) (*CheckpointMetadata, error) {
	if tag == "" {
		prefix := "checkpoint"
		if isAuto {
			prefix = "auto"
		}
		tag = fmt.Sprintf("%s-%s", prefix, time.Now().Format("2006-01-02-150405.000"))
	}
	if err := validateCheckpointID(tag); err != nil {
		return nil, err
	}

	checkpointPath := filepath.Join(cm.checkpointsDir, tag+".db")
	if _, err := os.Stat(checkpointPath); err == nil {
		return nil, ErrCheckpointExists
	}

	var schemaVersion int
	if err := cm.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schemaVersion); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	counts, err := cm.collectItemCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collection items: %w", err)
	}

	if err := cm.backupDatabase(ctx, checkpointPath); err != nil {
		return nil, fmt.Errorf("failed to backup database: %w", err)
	}

	info, err := os.Stat(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat checkpoint: %w", err)
	}

	metadata := CheckpointMetadata{
		ID:            tag,
		CreatedAt:     time.Now(),
		Description:   description,
		FileSize:      info.Size(),
		ItemCounts:    counts,
		SchemaVersion: schemaVersion,
		IsAuto:        isAuto,
	}

	if err := cm.saveMetadata(metadata); err != nil {
		if rmErr := os.Remove(checkpointPath); rmErr != nil {
			slog.Error("failed to remove checkpoint file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	if err := cm.storeMetadataInDB(ctx, metadata); err != nil {
		// The snapshot is usable from its sidecar file alone.
		slog.Warn("failed to store checkpoint metadata in database", "error", err)
	}

	return &metadata, nil
}

// List returns every checkpoint, newest first.
func (cm *CheckpointManager) List(_ context.Context) ([]CheckpointMetadata, error) {
	entries, err := os.ReadDir(cm.checkpointsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	checkpoints := make([]CheckpointMetadata, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadata, err := cm.loadMetadata(filepath.Join(cm.checkpointsDir, entry.Name()))
		if err != nil {
			slog.Debug("skipping unreadable checkpoint metadata", "file", entry.Name(), "error", err)
			continue
		}
		checkpoints = append(checkpoints, *metadata)
	}

	sort.Slice(checkpoints, func(i, j int) bool {
		return checkpoints[i].CreatedAt.After(checkpoints[j].CreatedAt)
	})

	return checkpoints, nil
}

// Restore replaces the database file with a checkpoint. The manager's
// connection is closed; callers must reopen the storage afterwards.
func (cm *CheckpointManager) Restore(_ context.Context, checkpointID string) error {
	if err := validateCheckpointID(checkpointID); err != nil {
		return err
	}

	checkpointPath := filepath.Join(cm.checkpointsDir, checkpointID+".db")
	if _, err := os.Stat(checkpointPath); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to access checkpoint: %w", err)
	}

	if err := cm.verifyCheckpointIntegrity(checkpointPath); err != nil {
		return fmt.Errorf("%w: %w", ErrCheckpointCorrupted, err)
	}

	if err := cm.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	backupPath := cm.dbPath + ".restore-backup"
	if err := copyFile(cm.dbPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup current database: %w", err)
	}

	if err := copyFile(checkpointPath, cm.dbPath); err != nil {
		if restoreErr := copyFile(backupPath, cm.dbPath); restoreErr != nil {
			slog.Error("failed to restore backup after checkpoint restore failure", "error", restoreErr)
		}
		return fmt.Errorf("failed to restore checkpoint: %w", err)
	}

	// Stale WAL files belong to the replaced database.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(cm.dbPath + suffix); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove stale WAL file", "file", cm.dbPath+suffix, "error", err)
		}
	}

	if err := os.Remove(backupPath); err != nil {
		slog.Error("failed to remove backup file", "error", err)
	}

	return nil
}

// Delete removes a checkpoint.
func (cm *CheckpointManager) Delete(ctx context.Context, checkpointID string) error {
	if err := validateCheckpointID(checkpointID); err != nil {
		return err
	}

	checkpointPath := filepath.Join(cm.checkpointsDir, checkpointID+".db")
	if _, err := os.Stat(checkpointPath); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to access checkpoint: %w", err)
	}

	if err := os.Remove(checkpointPath); err != nil {
		return fmt.Errorf("failed to remove checkpoint file: %w", err)
	}

	metadataPath := filepath.Join(cm.checkpointsDir, checkpointID+".meta.json")
	if err := os.Remove(metadataPath); err != nil {
		slog.Debug("failed to remove metadata file", "error", err, "path", metadataPath)
	}

	if _, err := cm.db.ExecContext(ctx, "DELETE FROM checkpoint_metadata WHERE id = ?", checkpointID); err != nil {
		slog.Debug("failed to remove checkpoint metadata from database", "error", err, "id", checkpointID)
	}

	return nil
}

func validateCheckpointID(id string) error {
	if strings.Contains(id, "/") || strings.Contains(id, "\\") || strings.Contains(id, "..") {
		return ErrInvalidCheckpointID
	}
	return nil
}

func (cm *CheckpointManager) collectItemCounts(ctx context.Context) (map[string]int, error) {
	rows, err := cm.db.QueryContext(ctx, `SELECT key, value FROM collections`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int, len(service.AllCollections))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			// Scalar preferences have no items.
			continue
		}
		counts[key] = len(items)
	}
	return counts, rows.Err()
}

func (cm *CheckpointManager) backupDatabase(ctx context.Context, destPath string) error {
	if _, err := cm.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	if strings.ContainsAny(absPath, `'";`) {
		return fmt.Errorf("invalid destination path: contains forbidden characters")
	}

	// #nosec G201 - absPath is validated above
	if _, err := cm.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", absPath)); err != nil {
		slog.Debug("VACUUM INTO failed, falling back to file copy", "error", err)
		return copyFile(cm.dbPath, destPath)
	}
	return nil
}

func (cm *CheckpointManager) verifyCheckpointIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned %q", result)
	}
	return nil
}

func (cm *CheckpointManager) saveMetadata(metadata CheckpointMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(cm.checkpointsDir, metadata.ID+".meta.json")
	return os.WriteFile(path, data, 0600)
}

func (cm *CheckpointManager) loadMetadata(path string) (*CheckpointMetadata, error) {
	// #nosec G304 - path is built from the checkpoints directory listing
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var metadata CheckpointMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}

func (cm *CheckpointManager) storeMetadataInDB(ctx context.Context, metadata CheckpointMetadata) error {
	counts, err := json.Marshal(metadata.ItemCounts)
	if err != nil {
		return err
	}
	_, err = cm.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO checkpoint_metadata
		(id, created_at, description, file_size, item_counts, schema_version, is_auto)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		metadata.ID, metadata.CreatedAt, metadata.Description, metadata.FileSize,
		string(counts), metadata.SchemaVersion, metadata.IsAuto)
	return err
}

func copyFile(src, dst string) error {
	// #nosec G304 - paths come from the manager's own directories
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// #nosec G304
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
