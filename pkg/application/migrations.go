package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrationManager applies embedded SQL migrations in lexical order and
// records each applied file so reruns are no-ops.
type MigrationManager interface {
	RegisterSchema(fsys *embed.FS, dir string)
	Apply(ctx context.Context) error
}

type schemaSource struct {
	fsys *embed.FS
	dir  string
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	sources []schemaSource
}

func (m *migrationManager) RegisterSchema(fsys *embed.FS, dir string) {
	m.sources = append(m.sources, schemaSource{fsys: fsys, dir: dir})
}

func (m *migrationManager) Apply(ctx context.Context) error {
	if m.pool == nil {
		return fmt.Errorf("migrations: no database pool configured")
	}

	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("migrations: ensure ledger: %w", err)
	}

	for _, src := range m.sources {
		files, err := listSQLFiles(src.fsys, src.dir)
		if err != nil {
			return err
		}
		for _, file := range files {
			applied, err := m.isApplied(ctx, file)
			if err != nil {
				return err
			}
			if applied {
				continue
			}
			body, err := src.fsys.ReadFile(file)
			if err != nil {
				return fmt.Errorf("migrations: read %s: %w", file, err)
			}
			if err := m.applyOne(ctx, file, string(body)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *migrationManager) isApplied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := m.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("migrations: check %s: %w", name, err)
	}
	return exists, nil
}

func (m *migrationManager) applyOne(ctx context.Context, name, body string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("migrations: begin %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, body); err != nil {
		return fmt.Errorf("migrations: apply %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		return fmt.Errorf("migrations: record %s: %w", name, err)
	}
	return tx.Commit(ctx)
}

func listSQLFiles(fsys *embed.FS, dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("migrations: read directory %q: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
