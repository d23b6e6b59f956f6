package datastore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationsTable is the version table maintained by golang-migrate.
const migrationsTable = "schema_migrations"

// MigrationResult describes the outcome of a migration.
type MigrationResult struct {
	FromVersion uint
	ToVersion   uint
	Changed     bool
}

// Migrate runs database migrations on a dedicated connection.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func Migrate(ctx context.Context, backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	if backend == schema.NoneBackend {
		return MigrationResult{}, errors.New("migrations are not supported for the none backend")
	}

	db, _, err := openDB(ctx, backend, connStr)
	if err != nil {
		return MigrationResult{}, err
	}
	defer func() { _ = db.Close() }()

	m, err := newMigrator(db, backend)
	if err != nil {
		return MigrationResult{}, err
	}
	return applyMigrations(m, targetVersion)
}

// newMigrator builds a migrate instance over db using the embedded migrations of backend.
// The instance shares db; its owner closes it.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error

	switch backend {
	case schema.SQLiteBackend:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(backend), driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// applyMigrations moves m to targetVersion using the same convention as Migrate.
func applyMigrations(m *migrate.Migrate, targetVersion int) (MigrationResult, error) {
	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return MigrationResult{}, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	result := MigrationResult{FromVersion: currentVersion, ToVersion: currentVersion}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	newVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to read migrated version: %w", err)
	}
	result.ToVersion = newVersion
	result.Changed = true
	return result, nil
}
