package reportstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// MigrateRuns moves the run store schema to targetVersion. A negative
// target migrates to the latest version, zero rolls everything back, and
// a positive target selects that exact version.
func MigrateRuns(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return errors.New("run migrations require a database backend")
	}

	db, err := openBackendDB(backend, connStr, contract.GetRunsDBFilePath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	driver, err := migrateDriverFor(backend, db)
	if err != nil {
		return err
	}

	src, err := migrationSource(backend)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "scangrade", driver)
	if err != nil {
		return fmt.Errorf("failed to build migrate instance: %w", err)
	}

	current, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to read current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration state is dirty at version %d; resolve it manually or force a version before retrying", current)
	}

	return applyMigrationTarget(m, current, targetVersion)
}

// migrateDriverFor wraps an open handle in the migrate driver matching
// its backend.
func migrateDriverFor(backend schema.DatabaseBackend, db *sql.DB) (database.Driver, error) {
	switch backend {
	case schema.SQLiteBackend:
		return sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		return mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		return postgres.WithInstance(db, &postgres.Config{})
	default:
		return nil, fmt.Errorf("no migration driver for backend: %s", backend)
	}
}

// migrationSource exposes the embedded SQL scripts for one backend. Each
// dialect keeps its own subdirectory because the DDL differs.
func migrationSource(backend schema.DatabaseBackend) (source.Driver, error) {
	sub, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return nil, fmt.Errorf("no migration scripts for backend %s: %w", backend, err)
	}
	return iofs.New(sub, ".")
}

// applyMigrationTarget performs the up, down or targeted migration and
// reports what changed.
func applyMigrationTarget(m *migrate.Migrate, current uint, target int) error {
	var err error
	switch {
	case target < 0:
		err = m.Up()
	case target == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(target))
	}

	if err == migrate.ErrNoChange {
		fmt.Println("Run store schema is already at the requested version.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if target == 0 {
		fmt.Printf("Rolled back run store schema from version %d to version 0\n", current)
		return nil
	}
	applied, _, _ := m.Version()
	fmt.Printf("Migrated run store schema from version %d to version %d\n", current, applied)
	return nil
}
