package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadJSON reads either a top-level array of record objects or an object with a
// "records" array.
func ReadJSON(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read JSON input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Result{}, nil
	}

	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '{' {
		var wrapper struct {
			Records []map[string]any `json:"records"`
		}
		if err := dec.Decode(&wrapper); err != nil {
			return Result{}, fmt.Errorf("failed to decode JSON input: %w", err)
		}
		rows = wrapper.Records
	} else {
		if err := dec.Decode(&rows); err != nil {
			return Result{}, fmt.Errorf("failed to decode JSON input: %w", err)
		}
	}

	var result Result
	for i, row := range rows {
		rec, err := FromFields(row)
		if err != nil {
			result.Issues = append(result.Issues, Issue{Row: i + 1, Reason: err.Error()})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// ReadCSV reads a CSV file whose first row is a header naming the columns.
// Column names are matched case-insensitively and common aliases are accepted.
func ReadCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	known := 0
	for _, name := range header {
		if canonicalField(name) != "" {
			known++
		}
	}
	if known == 0 {
		return Result{}, fmt.Errorf("CSV header %q has no recognised columns", strings.Join(header, ","))
	}

	var result Result
	for row := 1; ; row++ {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to read CSV row %d: %w", row, err)
		}

		fields := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(values) {
				fields[name] = values[i]
			}
		}
		rec, err := FromFields(fields)
		if err != nil {
			result.Issues = append(result.Issues, Issue{Row: row, Reason: err.Error()})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}
