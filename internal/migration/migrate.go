package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"
)

//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// RunMigrations applies every embedded up-migration that has not run yet.
// Applied versions are tracked in schema_migrations.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migration database handle is required")
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)`,
	); err != nil {
		return err
	}

	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		applied, err := hasApplied(db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		script, err := embeddedMigrations.ReadFile(migrationsDir + "/" + name)
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := db.Exec(
			`INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
			name,
			time.Now().UTC(),
		); err != nil {
			return err
		}
	}
	return nil
}

func hasApplied(db *sql.DB, version string) (bool, error) {
	var count int
	row := db.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE version = $1`, version)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
