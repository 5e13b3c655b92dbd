// Package sqlitemigrate applies embedded SQL migrations to SQLite databases.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Migration describes one embedded migration file and whether it ran.
type Migration struct {
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// ApplyMigrations executes embedded migrations from migrationRoot at most once per file.
func ApplyMigrations(sqlDB *sql.DB, migrationFS fs.FS, migrationRoot string) error {
	_, err := Apply(context.Background(), sqlDB, migrationFS, migrationRoot)
	return err
}

// Apply executes pending migrations in name order and returns the names it
// applied in this call.
func Apply(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS, migrationRoot string) ([]string, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	files, err := migrationFiles(migrationFS, migrationRoot)
	if err != nil {
		return nil, err
	}
	if err := ensureTable(ctx, sqlDB); err != nil {
		return nil, err
	}

	var applied []string
	for _, file := range files {
		done, err := isApplied(ctx, sqlDB, file.key)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", file.name, err)
		}
		if done {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file.readPath)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file.name, err)
		}
		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		tx, err := sqlDB.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("begin migration transaction %s: %w", file.name, err)
		}
		if _, err := tx.ExecContext(ctx, upSQL); err != nil {
			if !IsAlreadyExistsError(err) {
				_ = tx.Rollback()
				return applied, fmt.Errorf("exec migration %s: %w", file.name, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", migrationTable),
			file.key,
			time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("record migration %s: %w", file.name, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %s: %w", file.name, err)
		}
		applied = append(applied, file.key)
	}
	return applied, nil
}

// Status lists every embedded migration with its applied state.
func Status(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS, migrationRoot string) ([]Migration, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	files, err := migrationFiles(migrationFS, migrationRoot)
	if err != nil {
		return nil, err
	}
	if err := ensureTable(ctx, sqlDB); err != nil {
		return nil, err
	}
	result := make([]Migration, 0, len(files))
	for _, file := range files {
		var appliedAt int64
		err := sqlDB.QueryRowContext(ctx, "SELECT applied_at FROM "+migrationTable+" WHERE name = ?", file.key).Scan(&appliedAt)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			result = append(result, Migration{Name: file.key})
		case err != nil:
			return nil, fmt.Errorf("check migration %s: %w", file.name, err)
		default:
			result = append(result, Migration{Name: file.key, Applied: true, AppliedAt: time.UnixMilli(appliedAt).UTC()})
		}
	}
	return result, nil
}

// ExtractUpMigration returns the SQL in the -- +migrate Up section.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, downMarker)
	if downIdx == -1 {
		return content[upIdx+len(upMarker):]
	}
	return content[upIdx+len(upMarker) : downIdx]
}

// IsAlreadyExistsError reports whether this error indicates idempotent DDL success.
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

type migrationFile struct {
	name     string
	key      string
	readPath string
}

func migrationFiles(migrationFS fs.FS, migrationRoot string) ([]migrationFile, error) {
	if migrationFS == nil {
		return nil, fmt.Errorf("migration fs is required")
	}
	root := strings.TrimSpace(migrationRoot)
	if root == "" {
		root = "."
	}
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []migrationFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		file := migrationFile{
			name:     entry.Name(),
			key:      entry.Name(),
			readPath: path.Join(root, entry.Name()),
		}
		if root != "." {
			file.key = file.readPath
		}
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

func ensureTable(ctx context.Context, sqlDB *sql.DB) error {
	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`, migrationTable)
	if _, err := sqlDB.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func isApplied(ctx context.Context, sqlDB *sql.DB, name string) (bool, error) {
	var found int
	err := sqlDB.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
