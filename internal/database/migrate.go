package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// ApplyMigrations runs all .sql files from dir in lexical order, recording
// applied filenames in schema_migrations so reruns are no-ops.
func ApplyMigrations(ctx context.Context, db *sql.DB, dir fs.FS) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return err
	}

	var files []string
	err = fs.WalkDir(dir, ".", func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, f := range files {
		var exists bool
		if e := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename=$1)`, f).Scan(&exists); e != nil {
			return e
		}
		if exists {
			continue
		}

		sqlBytes, e := fs.ReadFile(dir, f)
		if e != nil {
			return e
		}
		sqlText := strings.TrimSpace(string(sqlBytes))
		if sqlText == "" {
			return errors.New("empty migration: " + f)
		}

		tx, e := db.BeginTx(ctx, nil)
		if e != nil {
			return e
		}
		if _, e = tx.ExecContext(ctx, sqlText); e != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %s failed: %w", f, e)
		}
		if _, e = tx.ExecContext(ctx, `INSERT INTO schema_migrations(filename) VALUES($1)`, f); e != nil {
			_ = tx.Rollback()
			return e
		}
		if e := tx.Commit(); e != nil {
			return e
		}
	}
	return nil
}
