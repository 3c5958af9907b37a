package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Names возвращает имена миграций в порядке применения
func Names() ([]string, error) {
	entries, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}

// Apply применяет еще не примененные миграции, каждую в своей транзакции.
// Возвращает количество примененных файлов.
func Apply(ctx context.Context, db *sql.DB, logger Logger) (int, error) {
	if _, err := db.ExecContext(ctx, createVersionsTable); err != nil {
		return 0, fmt.Errorf("migrations: create schema_migrations: %w", err)
	}

	names, err := Names()
	if err != nil {
		return 0, fmt.Errorf("migrations: list files: %w", err)
	}

	applied := 0
	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")

		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("migrations: check %s: %w", version, err)
		}
		if exists {
			continue
		}

		body, err := files.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("migrations: read %s: %w", name, err)
		}

		if err := applyOne(ctx, db, version, string(body)); err != nil {
			return applied, err
		}
		logger.Info("Migration applied: %s", version)
		applied++
	}

	return applied, nil
}

func applyOne(ctx context.Context, db *sql.DB, version, body string) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrations: begin %s: %w", version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("migrations: apply %s: %w", version, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("migrations: record %s: %w", version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migrations: commit %s: %w", version, err)
	}
	return nil
}
