package cmd

import (
	"os"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/datastore"
	"github.com/spf13/cobra"
)

// exportCmd exports the stored history to Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored history to Parquet for BI tools and analytics",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Writes four files next to --output-file:
- <base>_records.parquet     - every practice result
- <base>_mastery.parquet     - the current mastery estimates
- <base>_runs.parquet        - projection run metadata
- <base>_projections.parquet - every recorded subject projection

Requires: --output-file parameter

Examples:
  # Export all data
  coach export --output-file coach-data.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('coach-data_records.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if _, err := datastore.ExecuteExport(rootCtx, storeManager, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export data", err)
		}
	},
}
