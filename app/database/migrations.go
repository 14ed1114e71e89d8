package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFS embed.FS

// RunMigrations applies all pending migrations for the connection's dialect
// and returns the resulting version. The migrate instance is not closed since
// closing it would close the shared database handle.
func RunMigrations(db *DB) (uint, bool, error) {
	var (
		driver migratedb.Driver
		err    error
	)

	switch db.Dialect.Name {
	case Postgres.Name:
		driver, err = postgres.WithInstance(db.DB.DB, &postgres.Config{})
	case SQLite.Name:
		driver, err = sqlite.WithInstance(db.DB.DB, &sqlite.Config{})
	default:
		return 0, false, fmt.Errorf("unsupported dialect: %s", db.Dialect.Name)
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to create %s migration driver: %w", db.Dialect.Name, err)
	}

	source, err := iofs.New(migrationFS, "migrations/"+db.Dialect.Name)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.Dialect.Name, driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, false, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}
