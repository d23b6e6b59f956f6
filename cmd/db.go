package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/datastore"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbCmd focused on store management.
//
// Note: status, migrate and clear use minimal initialization (backendSetup) instead of
// the full sharedSetup. This skips engine validation and lets migrate and clear work
// on a database that cannot be opened normally.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the results store",
	Long: `Manage the store holding practice results, mastery estimates and projection runs.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (keeps nothing)

Subcommands:
  status  - Show store statistics and connection info
  migrate - Run database schema migrations
  clear   - Remove all stored data
  runs    - List recorded projection runs

Examples:
  # Check store status
  coach db status

  # Use PostgreSQL (set the connection string via env variable)
  COACH_BACKEND=postgresql COACH_DB_CONNECT="host=localhost dbname=coach" coach db status`,
}

// dbStatusCmd shows store status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the results store.

Displays:
- Backend type and connection status
- Number of records, subjects and topics
- Oldest and latest record timestamps
- Number of projection runs and the latest one
- Table sizes

Examples:
  coach db status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		recordStore := storeManager.GetRecordStore()
		if recordStore == nil {
			contract.LogFatal("Failed to get store status", errors.New("store is not initialized"))
		}
		status, err := recordStore.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		datastore.PrintStatus(os.Stdout, status)
	},
}

// dbMigrateCmd runs database migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the results store.

Every command migrates the store to the latest version on startup. Use this command
to move to a specific version or to roll back.

Examples:
  # Migrate to latest version (default)
  coach db migrate

  # Migrate to specific version
  coach db migrate --target-version 1

  # Rollback to initial state
  coach db migrate --target-version 0`,
	PreRunE: backendSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := datastore.Migrate(rootCtx, cfg.Backend, cfg.DBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Database already at version %d.\n", result.ToVersion)
			return
		}
		fmt.Printf("Migrated %s database from version %d to %d.\n", cfg.Backend, result.FromVersion, result.ToVersion)
	},
}

// dbClearCmd removes all stored data.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored results, estimates and runs",
	Long: `Delete all stored data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  coach export --output-file backup.parquet
  coach db clear`,
	PreRunE: backendSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := contract.GetDBFilePath()
		if cfg.Backend == schema.SQLiteBackend && cfg.DBConnect != "" {
			dbFilePath = cfg.DBConnect
		}
		if err := datastore.ClearStore(rootCtx, cfg.Backend, dbFilePath, cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// dbRunsCmd lists projection runs.
var dbRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded projection runs, newest first",
	Long: `List the projection runs recorded by 'coach project'.

Examples:
  coach db runs --limit 5
  coach db runs --output parquet --output-file runs.parquet`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteRunsList, "Cannot list projection runs"),
}
