package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Fixed column widths (with padding) of the history tables.
const (
	recordBaseWidth  = 60 // Date + Correct + Total + Score + ID
	masteryBaseWidth = 40 // Mastery + Variance + Observations
)

// writeRecordTable writes stored records as a table, oldest first.
func writeRecordTable(w io.Writer, records []schema.PerformanceRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found")
		return err
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Date", "Subject", "Topic", "Correct", "Total", "Score"}
	if cfg.Detail {
		headers = append(headers, "ID")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, recordBaseWidth) / 2
	var data [][]string
	for _, r := range records {
		row := []string{
			formatDate(r.Timestamp),
			contract.TruncateText(r.SubjectID, nameWidth),
			contract.TruncateText(r.TopicID, nameWidth),
			fmt.Sprintf(intFmt, r.CorrectCount),
			fmt.Sprintf(intFmt, r.TotalCount),
			fmtFloat(r.Score()),
		}
		if cfg.Detail {
			row = append(row, r.ID)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d records\n", len(records))
	return err
}

// writeCSVRecords writes stored records in CSV format.
func writeCSVRecords(w io.Writer, records []schema.PerformanceRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"id", "timestamp", "subject", "topic", "correct", "total", "score"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				r.ID,
				formatTime(r.Timestamp),
				r.SubjectID,
				r.TopicID,
				fmt.Sprintf(intFmt, r.CorrectCount),
				fmt.Sprintf(intFmt, r.TotalCount),
				fmtFloat(r.Score()),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// masteryRows flattens the store into estimates sorted by topic.
func masteryRows(store schema.MasteryStore) []schema.MasteryEstimate {
	topics := schema.MasteryTopics(store)
	rows := make([]schema.MasteryEstimate, 0, len(topics))
	for _, topic := range topics {
		est := store[topic]
		if est.TopicID == "" {
			est.TopicID = topic
		}
		rows = append(rows, est)
	}
	return rows
}

// writeMasteryTable writes mastery estimates as a table.
func writeMasteryTable(w io.Writer, estimates []schema.MasteryEstimate, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if len(estimates) == 0 {
		_, err := fmt.Fprintln(w, "No mastery estimates found")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Topic", "Mastery %", "Variance", "Observations"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, masteryBaseWidth)
	var data [][]string
	for _, est := range estimates {
		data = append(data, []string{
			contract.TruncateText(est.TopicID, nameWidth),
			fmtFloat(100 * est.MeanEstimate),
			strconv.FormatFloat(est.Variance, 'g', 4, 64),
			fmt.Sprintf(intFmt, est.ObservationCount),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d topics\n", len(estimates))
	return err
}

// writeCSVMastery writes mastery estimates in CSV format at full precision.
func writeCSVMastery(w io.Writer, estimates []schema.MasteryEstimate, intFmt string) error {
	header := []string{"topic", "mean_estimate", "variance", "observation_count"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, est := range estimates {
			rec := []string{
				est.TopicID,
				strconv.FormatFloat(est.MeanEstimate, 'f', -1, 64),
				strconv.FormatFloat(est.Variance, 'f', -1, 64),
				fmt.Sprintf(intFmt, est.ObservationCount),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRunTable writes the projection run history as a table.
func writeRunTable(w io.Writer, runs []schema.ProjectionRun, fmtFloat func(float64) string, intFmt string) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No projection runs found")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Started", "Target", "Deadline", "Trials", "Seed", "Subjects"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			formatTime(r.StartedAt),
			fmtFloat(r.TargetScore),
			formatDate(r.Deadline),
			fmt.Sprintf(intFmt, r.Trials),
			strconv.FormatInt(r.Seed, 10),
			fmt.Sprintf(intFmt, r.Subjects),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d runs\n", len(runs))
	return err
}

// writeCSVRuns writes the projection run history in CSV format.
func writeCSVRuns(w io.Writer, runs []schema.ProjectionRun, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"run_id", "started_at", "ended_at", "target_score", "deadline", "trials", "seed", "subjects"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			rec := []string{
				strconv.FormatInt(r.RunID, 10),
				formatTime(r.StartedAt),
				formatTime(r.EndedAt),
				fmtFloat(r.TargetScore),
				formatTime(r.Deadline),
				fmt.Sprintf(intFmt, r.Trials),
				strconv.FormatInt(r.Seed, 10),
				fmt.Sprintf(intFmt, r.Subjects),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
