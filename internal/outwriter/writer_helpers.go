package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// An empty outputFile writes to out instead.
func writeWithFile(out io.Writer, outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(out)
	}

	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := writer(file); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatTime renders a timestamp for CSV and table output. Zero times render empty.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(contract.DateTimeFormat)
}

// formatDate renders only the calendar date, or "-" for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.DateOnly)
}
