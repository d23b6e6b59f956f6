package datastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/parquet"
)

// ExportPaths holds the files written by an export.
type ExportPaths struct {
	Records     string
	Mastery     string
	Runs        string
	Projections string
}

// NewExportPaths derives the export file names from the --output-file value.
// A trailing .parquet extension is dropped before suffixing.
func NewExportPaths(outputFile string) ExportPaths {
	base := strings.TrimSuffix(outputFile, ".parquet")
	return ExportPaths{
		Records:     base + "_records.parquet",
		Mastery:     base + "_mastery.parquet",
		Runs:        base + "_runs.parquet",
		Projections: base + "_projections.parquet",
	}
}

// ExecuteExport writes the stored history to Parquet files and reports progress to w.
func ExecuteExport(ctx context.Context, mgr contract.StoreManager, outputFile string, w io.Writer) (ExportPaths, error) {
	// Validate that output file is specified
	if outputFile == "" {
		return ExportPaths{}, errors.New("--output-file is required for export command")
	}

	recordStore := mgr.GetRecordStore()
	if recordStore == nil {
		return ExportPaths{}, errors.New("store is not initialized")
	}

	// Check if there's any data to export
	status, err := recordStore.GetStatus(ctx)
	if err != nil {
		return ExportPaths{}, fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRecords == 0 && status.TotalRuns == 0 {
		return ExportPaths{}, errors.New("no data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total records: %d\n", status.TotalRecords)
	_, _ = fmt.Fprintf(w, "Total projection runs: %d\n", status.TotalRuns)

	records, err := recordStore.ListRecords(ctx, "")
	if err != nil {
		return ExportPaths{}, fmt.Errorf("failed to retrieve records: %w", err)
	}
	mastery, err := mgr.GetMasteryRepository().LoadMastery(ctx)
	if err != nil {
		return ExportPaths{}, fmt.Errorf("failed to retrieve mastery estimates: %w", err)
	}
	runs, err := mgr.GetRunStore().ListRuns(ctx)
	if err != nil {
		return ExportPaths{}, fmt.Errorf("failed to retrieve projection runs: %w", err)
	}
	projections, err := mgr.GetRunStore().ListProjections(ctx, 0)
	if err != nil {
		return ExportPaths{}, fmt.Errorf("failed to retrieve projections: %w", err)
	}

	paths := NewExportPaths(outputFile)

	if err := parquet.WriteRecordsParquet(parquet.ConvertRecords(records), paths.Records); err != nil {
		return paths, fmt.Errorf("failed to write records: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d records to: %s\n", len(records), paths.Records)

	if err := parquet.WriteMasteryParquet(parquet.ConvertMastery(mastery), paths.Mastery); err != nil {
		return paths, fmt.Errorf("failed to write mastery estimates: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d mastery estimates to: %s\n", len(mastery), paths.Mastery)

	if err := parquet.WriteRunsParquet(parquet.ConvertRuns(runs), paths.Runs); err != nil {
		return paths, fmt.Errorf("failed to write projection runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d projection runs to: %s\n", len(runs), paths.Runs)

	if err := parquet.WriteProjectionsParquet(parquet.ConvertProjections(projections), paths.Projections); err != nil {
		return paths, fmt.Errorf("failed to write projections: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d projections to: %s\n", len(projections), paths.Projections)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Apache Arrow")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	_, _ = fmt.Fprintln(w, "  - Any other Parquet-compatible tool")

	return paths, nil
}
