package iocache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/greenscore/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationsTable keeps greenscore versions apart from other tools sharing the database.
const migrationsTable = "greenscore_schema_migrations"

// newMigrator builds a migrate instance over an open database. The returned
// release func frees migrator resources without closing db.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, func(), error) {
	var driver database.Driver
	var conn *sql.Conn
	var err error

	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create SQLite migrate driver: %w", err)
		}

	case schema.MySQLBackend:
		if conn, err = db.Conn(context.Background()); err != nil {
			return nil, nil, fmt.Errorf("failed to reserve MySQL connection: %w", err)
		}
		driver, err = migratemysql.WithConnection(context.Background(), conn, &migratemysql.Config{MigrationsTable: migrationsTable})
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to create MySQL migrate driver: %w", err)
		}

	case schema.PostgreSQLBackend:
		if conn, err = db.Conn(context.Background()); err != nil {
			return nil, nil, fmt.Errorf("failed to reserve PostgreSQL connection: %w", err)
		}
		driver, err = postgres.WithConnection(context.Background(), conn, &postgres.Config{MigrationsTable: migrationsTable})
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to create PostgreSQL migrate driver: %w", err)
		}

	default:
		return nil, nil, fmt.Errorf("migrations are not supported for %s backend", backend)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "greenscore", driver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	release := func() {
		_ = sourceDriver.Close()
		// The SQLite driver closes the shared *sql.DB on Close
		if conn != nil {
			_ = conn.Close()
		}
	}
	return m, release, nil
}

// ensureSchema migrates an open database to the latest version.
func ensureSchema(db *sql.DB, backend schema.DatabaseBackend) error {
	m, release, err := newMigrator(db, backend)
	if err != nil {
		return err
	}
	defer release()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate to latest version: %w", err)
	}
	return nil
}

// MigrateHistory runs database migrations for the history store.
func MigrateHistory(w io.Writer, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return migrateDatabase(w, backend, connStr, GetHistoryDBFilePath(), targetVersion)
}

// MigrateModels runs database migrations for the model store.
func MigrateModels(w io.Writer, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return migrateDatabase(w, backend, connStr, GetModelDBFilePath(), targetVersion)
}

func migrateDatabase(w io.Writer, backend schema.DatabaseBackend, connStr, defaultPath string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}
	db, err := openDB(backend, connStr, defaultPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return runMigration(w, db, backend, targetVersion)
}

// runMigration moves the schema of db to targetVersion.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func runMigration(w io.Writer, db *sql.DB, backend schema.DatabaseBackend, targetVersion int) error {
	m, release, err := newMigrator(db, backend)
	if err != nil {
		return err
	}
	defer release()

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintln(w, "No migration needed. Database is already at the latest version.")
		} else {
			newVersion, _, _ := m.Version()
			_, _ = fmt.Fprintf(w, "Successfully migrated from version %d to version %d\n", currentVersion, newVersion)
		}

	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintln(w, "No migration needed. Database is already at version 0")
		} else {
			_, _ = fmt.Fprintf(w, "Successfully rolled back from version %d to version 0\n", currentVersion)
		}

	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintf(w, "No migration needed. Database is already at version %d\n", targetVersion)
		} else {
			_, _ = fmt.Fprintf(w, "Successfully migrated from version %d to version %d\n", currentVersion, targetVersion)
		}
	}
	return nil
}

// schemaVersion reports the applied migration version of db, 0 when none.
func schemaVersion(db *sql.DB, backend schema.DatabaseBackend) (uint, error) {
	m, release, err := newMigrator(db, backend)
	if err != nil {
		return 0, err
	}
	defer release()

	v, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	return v, err
}
