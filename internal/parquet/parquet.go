// Package parquet provides data structures and functions for exporting coach
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/parquet-go/parquet-go"
)

// PerformanceRecord represents one stored quiz or exam result.
// This struct maps to the performance_records database table.
type PerformanceRecord struct {
	// RecordID is the UUID of the record
	RecordID string `parquet:"record_id,snappy"`

	// SubjectID is the subject the result belongs to
	SubjectID string `parquet:"subject_id,snappy"`

	// TopicID is the optional topic (nullable)
	TopicID *string `parquet:"topic_id,optional,snappy"`

	// RecordedAt is when the result was achieved (nullable when the source date was unusable)
	RecordedAt *time.Time `parquet:"recorded_at,optional,snappy"`

	CorrectCount int32 `parquet:"correct_count,snappy"`
	TotalCount   int32 `parquet:"total_count,snappy"`

	// Score is the percentage score derived from the counts
	Score float64 `parquet:"score,snappy"`
}

// MasteryEstimate represents the Bayesian mastery belief of one topic.
// This struct maps to the mastery_estimates database table.
type MasteryEstimate struct {
	TopicID          string     `parquet:"topic_id,snappy"`
	MeanEstimate     float64    `parquet:"mean_estimate,snappy"`
	Variance         float64    `parquet:"variance,snappy"`
	ObservationCount int32      `parquet:"observation_count,snappy"`
	UpdatedAt        *time.Time `parquet:"updated_at,optional,snappy"`
}

// ProjectionRun represents a single execution of the project command.
// This struct maps to the projection_runs database table.
type ProjectionRun struct {
	RunID       int64      `parquet:"run_id,snappy"`
	StartedAt   time.Time  `parquet:"started_at,snappy"`
	EndedAt     *time.Time `parquet:"ended_at,optional,snappy"`
	TargetScore float64    `parquet:"target_score,snappy"`
	Deadline    *time.Time `parquet:"deadline,optional,snappy"`
	Trials      int32      `parquet:"trials,snappy"`
	Seed        int64      `parquet:"seed,snappy"`
	Subjects    int32      `parquet:"subjects,snappy"`
}

// Projection represents one subject's projection within a run.
// This struct maps to the projection_results database table.
type Projection struct {
	RunID              int64   `parquet:"run_id,snappy"`
	SubjectID          string  `parquet:"subject_id,snappy"`
	CurrentMean        float64 `parquet:"current_mean,snappy"`
	CurrentStdDev      float64 `parquet:"current_std_dev,snappy"`
	Trend              string  `parquet:"trend,snappy"`
	SampleCount        int32   `parquet:"sample_count,snappy"`
	HorizonDays        float64 `parquet:"horizon_days,snappy"`
	EffectiveDays      float64 `parquet:"effective_days,snappy"`
	SlopeGrowth        float64 `parquet:"slope_growth,snappy"`
	ProjectedMean      float64 `parquet:"projected_mean,snappy"`
	TimeUncertainty    float64 `parquet:"time_uncertainty,snappy"`
	PooledStdDev       float64 `parquet:"pooled_std_dev,snappy"`
	TargetScore        float64 `parquet:"target_score,snappy"`
	ZScore             float64 `parquet:"z_score,snappy"`
	ProbabilityPercent float64 `parquet:"probability_percent,snappy"`
	AnalyticPercent    float64 `parquet:"analytic_percent,snappy"`
	Trials             int32   `parquet:"trials,snappy"`
	Seed               int64   `parquet:"seed,snappy"`
}

// writeParquet writes rows to outputPath using struct schema inference.
func writeParquet[T any](data []T, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRecordsParquet writes performance records to a Parquet file.
func WriteRecordsParquet(data []PerformanceRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMasteryParquet writes mastery estimates to a Parquet file.
func WriteMasteryParquet(data []MasteryEstimate, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes projection runs to a Parquet file.
func WriteRunsParquet(data []ProjectionRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteProjectionsParquet writes per-subject projections to a Parquet file.
func WriteProjectionsParquet(data []Projection, outputPath string) error {
	return writeParquet(data, outputPath)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ConvertRecords converts schema.PerformanceRecord to PerformanceRecord for Parquet export.
func ConvertRecords(records []schema.PerformanceRecord) []PerformanceRecord {
	result := make([]PerformanceRecord, len(records))
	for i, r := range records {
		result[i] = PerformanceRecord{
			RecordID:     r.ID,
			SubjectID:    r.SubjectID,
			TopicID:      optionalString(r.TopicID),
			RecordedAt:   optionalTime(r.Timestamp),
			CorrectCount: int32(r.CorrectCount),
			TotalCount:   int32(r.TotalCount),
			Score:        r.Score(),
		}
	}
	return result
}

// ConvertMastery converts a MasteryStore to MasteryEstimate rows sorted by topic.
func ConvertMastery(store schema.MasteryStore) []MasteryEstimate {
	result := make([]MasteryEstimate, 0, len(store))
	for _, topic := range schema.MasteryTopics(store) {
		est := store[topic]
		result = append(result, MasteryEstimate{
			TopicID:          topic,
			MeanEstimate:     est.MeanEstimate,
			Variance:         est.Variance,
			ObservationCount: int32(est.ObservationCount),
			UpdatedAt:        optionalTime(est.UpdatedAt),
		})
	}
	return result
}

// ConvertRuns converts schema.ProjectionRun to ProjectionRun for Parquet export.
func ConvertRuns(runs []schema.ProjectionRun) []ProjectionRun {
	result := make([]ProjectionRun, len(runs))
	for i, run := range runs {
		result[i] = ProjectionRun{
			RunID:       run.RunID,
			StartedAt:   run.StartedAt,
			EndedAt:     optionalTime(run.EndedAt),
			TargetScore: run.TargetScore,
			Deadline:    optionalTime(run.Deadline),
			Trials:      int32(run.Trials),
			Seed:        run.Seed,
			Subjects:    int32(run.Subjects),
		}
	}
	return result
}

// ConvertProjections converts schema.ProjectionRecord to Projection for Parquet export.
func ConvertProjections(records []schema.ProjectionRecord) []Projection {
	result := make([]Projection, len(records))
	for i, r := range records {
		result[i] = Projection{
			RunID:              r.RunID,
			SubjectID:          r.SubjectID,
			CurrentMean:        r.CurrentMean,
			CurrentStdDev:      r.CurrentStdDev,
			Trend:              string(r.Trend),
			SampleCount:        int32(r.SampleCount),
			HorizonDays:        r.HorizonDays,
			EffectiveDays:      r.EffectiveDays,
			SlopeGrowth:        r.SlopeGrowth,
			ProjectedMean:      r.ProjectedMean,
			TimeUncertainty:    r.TimeUncertainty,
			PooledStdDev:       r.PooledStdDev,
			TargetScore:        r.TargetScore,
			ZScore:             r.ZScore,
			ProbabilityPercent: r.ProbabilityPercent,
			AnalyticPercent:    r.AnalyticPercent,
			Trials:             int32(r.Trials),
			Seed:               r.Seed,
		}
	}
	return result
}
