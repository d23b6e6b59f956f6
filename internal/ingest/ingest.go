// Package ingest reads performance records from JSON and CSV files.
// Values are coerced leniently: numbers may be strings, dates may use most common
// layouts or epoch seconds/milliseconds, and rows that cannot be used are reported
// as issues instead of failing the whole import.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Format is the encoding of an import file.
type Format string

// Supported import formats.
const (
	JSONFormat Format = "json"
	CSVFormat  Format = "csv"
)

// Issue describes a row that was skipped during import.
type Issue struct {
	Row    int    // 1-based row (CSV data row or JSON array index + 1)
	Reason string // Why the row was skipped
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d: %s", i.Row, i.Reason)
}

// Result is the outcome of an import.
type Result struct {
	Records []schema.PerformanceRecord
	Issues  []Issue
}

// Field names after normalization (lowercase, no separators) mapped to record fields.
var fieldAliases = map[string]string{
	"id":             "id",
	"recordid":       "id",
	"timestamp":      "timestamp",
	"date":           "timestamp",
	"time":           "timestamp",
	"recordedat":     "timestamp",
	"takenat":        "timestamp",
	"subject":        "subject",
	"subjectid":      "subject",
	"topic":          "topic",
	"topicid":        "topic",
	"correct":        "correct",
	"correctcount":   "correct",
	"correctanswers": "correct",
	"total":          "total",
	"totalcount":     "total",
	"questions":      "total",
	"totalquestions": "total",
}

// canonicalField maps a raw column or key name to a record field, or "" when unknown.
func canonicalField(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	return fieldAliases[key]
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFormat, nil
	case ".csv":
		return CSVFormat, nil
	default:
		return "", fmt.Errorf("cannot detect import format of %q: use a .json or .csv file or pass --format", path)
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case JSONFormat:
		return JSONFormat, nil
	case CSVFormat:
		return CSVFormat, nil
	default:
		return "", fmt.Errorf("invalid import format %q. Must be json or csv", s)
	}
}

// ReadFile reads records from path. An empty format is detected from the extension.
func ReadFile(path string, format Format) (Result, error) {
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return Result{}, err
		}
	}
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Read(file, format)
}

// Read reads records from r in the given format.
func Read(r io.Reader, format Format) (Result, error) {
	switch format {
	case JSONFormat:
		return ReadJSON(r)
	case CSVFormat:
		return ReadCSV(r)
	default:
		return Result{}, fmt.Errorf("unsupported import format: %s", format)
	}
}

// errMissingField marks a row that lacks a required field.
var errMissingField = errors.New("missing required field")

// FromFields builds a record from loosely typed fields keyed by column or key name.
// Unknown keys are ignored. A missing or unparsable timestamp yields the zero time,
// which keeps the record out of recency calculations.
func FromFields(fields map[string]any) (schema.PerformanceRecord, error) {
	canonical := make(map[string]any, len(fields))
	for name, v := range fields {
		if field := canonicalField(name); field != "" {
			canonical[field] = v
		}
	}

	var rec schema.PerformanceRecord
	rec.ID = strings.TrimSpace(cast.ToString(canonical["id"]))
	rec.SubjectID = strings.TrimSpace(cast.ToString(canonical["subject"]))
	rec.TopicID = strings.TrimSpace(cast.ToString(canonical["topic"]))
	rec.Timestamp = ParseTimestamp(canonical["timestamp"])

	if rec.SubjectID == "" {
		return rec, fmt.Errorf("%w: subject", errMissingField)
	}

	total, err := toCount(canonical["total"])
	if err != nil {
		return rec, fmt.Errorf("total: %w", err)
	}
	correct, err := toCount(canonical["correct"])
	if err != nil {
		return rec, fmt.Errorf("correct: %w", err)
	}
	rec.TotalCount = total
	rec.CorrectCount = correct

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return rec.Normalize(), nil
}

// toCount coerces a count value. Fractional values are rounded; out-of-range values
// are clamped later by PerformanceRecord.Normalize.
func toCount(v any) (int, error) {
	if isBlank(v) {
		return 0, errMissingField
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("not a number: %v", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return int(math.Round(math.Max(math.Min(f, math.MaxInt32), math.MinInt32))), nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 1e12

// ParseTimestamp coerces a date value. Strings use any layout cast understands and are
// read as UTC when they carry no zone; numbers are epoch seconds, or milliseconds when
// large. Anything unusable returns the zero time.
func ParseTimestamp(v any) time.Time {
	if isBlank(v) {
		return time.Time{}
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}

	var ts time.Time
	if f, err := cast.ToFloat64E(v); err == nil {
		ts = fromEpoch(f)
	} else if parsed, err := cast.ToTimeInDefaultLocationE(v, time.UTC); err == nil {
		ts = parsed
	}

	if ts.IsZero() || ts.Unix() <= 0 {
		return time.Time{}
	}
	return ts.UTC()
}

func fromEpoch(f float64) time.Time {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return time.Time{}
	}
	if f >= epochMillisThreshold {
		return time.UnixMilli(int64(f))
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9))
}
