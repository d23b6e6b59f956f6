// Package cmd defines the command-line interface for coach.
package cmd

import (
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(masteryCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the records subcommands to the parent records command
	recordsCmd.AddCommand(recordsAddCmd)
	recordsCmd.AddCommand(recordsImportCmd)
	recordsCmd.AddCommand(recordsListCmd)

	// Add the mastery subcommands to the parent mastery command
	masteryCmd.AddCommand(masteryShowCmd)
	masteryCmd.AddCommand(masteryRebuildCmd)
	masteryCmd.AddCommand(masteryResetCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbRunsCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Float64("target", contract.DefaultTargetScore, "Target score between 0 and 100")
	rootCmd.PersistentFlags().String("deadline", "", "Exam deadline as YYYY-MM-DD, RFC3339 or 'in N days' (empty = no deadline)")
	rootCmd.PersistentFlags().Int("trials", contract.DefaultTrials, "Number of Monte Carlo trials per subject")
	rootCmd.PersistentFlags().String("seed", "", "Random seed for reproducible projections (empty = derived from history)")
	rootCmd.PersistentFlags().String("as-of", "", "Reference time for horizons and recency (default now)")
	rootCmd.PersistentFlags().StringP("subject", "s", "", "Only consider this subject")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print projection internals (horizon, effective days, z-score)")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Storage backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Flags of recordsAddCmd are read directly, they are not config keys
	recordsAddCmd.Flags().String("topic", "", "Topic of the result")
	recordsAddCmd.Flags().Int("correct", 0, "Number of correct answers")
	recordsAddCmd.Flags().Int("total", 0, "Number of questions")
	recordsAddCmd.Flags().String("date", "", "When the result was taken (default now)")
	recordsAddCmd.Flags().String("id", "", "Record id (default a random UUID)")
	_ = recordsAddCmd.MarkFlagRequired("total")

	recordsImportCmd.Flags().String("format", "", "Import format: json or csv (default from the file extension)")

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
