// Package outwriter has output and writer logic.
package outwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/parquet"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct {
	out io.Writer // Destination when no output file is configured
}

var _ contract.ResultWriter = &OutWriter{}

// NewOutWriter creates a new instance of the output writer that prints to stdout.
func NewOutWriter() *OutWriter {
	return &OutWriter{out: os.Stdout}
}

// NewOutWriterTo creates an output writer that prints to w instead of stdout.
func NewOutWriterTo(w io.Writer) *OutWriter {
	return &OutWriter{out: w}
}

// errParquetNeedsFile is returned when parquet output is requested without a file.
var errParquetNeedsFile = errors.New("--output-file is required for parquet output")

// WriteProjections prints projection results using the configured output format.
func (ow *OutWriter) WriteProjections(runID int64, results []schema.ProjectionResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.write(cfg, "Wrote JSON", func(w io.Writer) error {
			return writeJSONProjections(w, results)
		})
	case schema.CSVOut:
		return ow.write(cfg, "Wrote CSV", func(w io.Writer) error {
			return writeCSVProjections(w, results, fmtFloat, intFmt)
		})
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		records := make([]schema.ProjectionRecord, len(results))
		for i, r := range results {
			records[i] = schema.ProjectionRecord{RunID: runID, ProjectionResult: r}
		}
		return parquet.WriteProjectionsParquet(parquet.ConvertProjections(records), cfg.OutputFile)
	default:
		return ow.write(cfg, "Wrote table", func(w io.Writer) error {
			return writeProjectionTable(w, runID, results, cfg, fmtFloat, duration)
		})
	}
}

// WriteRecommendation prints the urgency ranking and the top recommendation.
func (ow *OutWriter) WriteRecommendation(rec schema.Recommendation, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.write(cfg, "Wrote JSON", func(w io.Writer) error {
			return writeJSONRecommendation(w, rec)
		})
	case schema.CSVOut:
		return ow.write(cfg, "Wrote CSV", func(w io.Writer) error {
			return writeCSVUrgency(w, rec.Ranked, fmtFloat)
		})
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for recommendations")
	default:
		return ow.write(cfg, "Wrote table", func(w io.Writer) error {
			return writeUrgencyTable(w, rec, cfg, fmtFloat, duration)
		})
	}
}

// WriteGoals prints generated study goals.
func (ow *OutWriter) WriteGoals(goals []schema.Goal, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return ow.write(cfg, "Wrote JSON", func(w io.Writer) error {
			return writeJSON(w, goals)
		})
	case schema.CSVOut:
		return ow.write(cfg, "Wrote CSV", func(w io.Writer) error {
			return writeCSVGoals(w, goals)
		})
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for goals")
	default:
		return ow.write(cfg, "Wrote table", func(w io.Writer) error {
			return writeGoalTable(w, goals, cfg, duration)
		})
	}
}

// WriteRecords prints stored performance records.
func (ow *OutWriter) WriteRecords(records []schema.PerformanceRecord, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.write(cfg, "Wrote JSON", func(w io.Writer) error {
			return writeJSON(w, records)
		})
	case schema.CSVOut:
		return ow.write(cfg, "Wrote CSV", func(w io.Writer) error {
			return writeCSVRecords(w, records, fmtFloat, intFmt)
		})
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		return parquet.WriteRecordsParquet(parquet.ConvertRecords(records), cfg.OutputFile)
	default:
		return ow.write(cfg, "Wrote table", func(w io.Writer) error {
			return writeRecordTable(w, records, cfg, fmtFloat, intFmt)
		})
	}
}

// WriteMastery prints per-topic mastery estimates sorted by topic.
func (ow *OutWriter) WriteMastery(store schema.MasteryStore, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	estimates := masteryRows(store)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.write(cfg, "Wrote JSON", func(w io.Writer) error {
			return writeJSON(w, estimates)
		})
	case schema.CSVOut:
		return ow.write(cfg, "Wrote CSV", func(w io.Writer) error {
			return writeCSVMastery(w, estimates, intFmt)
		})
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		return parquet.WriteMasteryParquet(parquet.ConvertMastery(store), cfg.OutputFile)
	default:
		return ow.write(cfg, "Wrote table", func(w io.Writer) error {
			return writeMasteryTable(w, estimates, cfg, fmtFloat, intFmt)
		})
	}
}

// WriteRuns prints the projection run history.
func (ow *OutWriter) WriteRuns(runs []schema.ProjectionRun, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.write(cfg, "Wrote JSON", func(w io.Writer) error {
			return writeJSON(w, runs)
		})
	case schema.CSVOut:
		return ow.write(cfg, "Wrote CSV", func(w io.Writer) error {
			return writeCSVRuns(w, runs, fmtFloat, intFmt)
		})
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		return parquet.WriteRunsParquet(parquet.ConvertRuns(runs), cfg.OutputFile)
	default:
		return ow.write(cfg, "Wrote table", func(w io.Writer) error {
			return writeRunTable(w, runs, fmtFloat, intFmt)
		})
	}
}

func (ow *OutWriter) write(cfg *contract.Config, successMsg string, writer func(io.Writer) error) error {
	if err := writeWithFile(ow.out, cfg.OutputFile, writer, successMsg); err != nil {
		return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
	}
	return nil
}
