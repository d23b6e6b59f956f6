package datastore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores opens the global store. Calling it more than once has no further effect.
func InitStores(ctx context.Context, backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewStore(ctx, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize %s store: %w", backend, err)
			return
		}
		Manager.Lock()
		defer Manager.Unlock()
		Manager.store = store
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearStore removes all stored data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables and the migration version table.
// For NoneBackend, it does nothing.
func ClearStore(ctx context.Context, backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return errors.New("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTables(ctx, backend, connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropTables connects to the SQL database and drops every table if it exists.
func dropTables(ctx context.Context, backend schema.DatabaseBackend, connStr string) error {
	db, _, err := openDB(ctx, backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tables := append([]string{migrationsTable}, allTables...)
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
