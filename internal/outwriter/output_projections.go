package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeProjectionTable generates and writes the human-readable projection table.
func writeProjectionTable(w io.Writer, runID int64, results []schema.ProjectionResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Rank", "Subject", "Mean", "Projected", "Target", "Prob %", "Label"}
	fixed := projectionBaseWidth
	if cfg.Detail {
		headers = append(headers, "StdDev", "Trend", "Horizon", "Eff Days", "Pooled", "Z", "Analytic %")
		fixed += projectionDetailWidth
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 2. Populate Rows
	nameWidth := getMaxTableNameWidth(cfg, fixed)
	var data [][]string
	for i, r := range results {
		row := []string{
			strconv.Itoa(i + 1), // Rank
			contract.TruncateText(r.SubjectID, nameWidth),             // Subject
			fmtFloat(r.CurrentMean),                                   // Mean
			fmtFloat(r.ProjectedMean),                                 // Projected
			fmtFloat(r.TargetScore),                                   // Target
			fmtFloat(r.ProbabilityPercent),                            // Prob %
			labelFor(cfg, r.ProbabilityPercent, probabilityLabelPair), // Label
		}
		if cfg.Detail {
			row = append(
				row,
				fmtFloat(r.CurrentStdDev),   // StdDev
				string(r.Trend),             // Trend
				fmtFloat(r.HorizonDays),     // Horizon
				fmtFloat(r.EffectiveDays),   // Eff Days
				fmtFloat(r.PooledStdDev),    // Pooled
				fmtFloat(r.ZScore),          // Z
				fmtFloat(r.AnalyticPercent), // Analytic %
			)
		}
		data = append(data, row)
	}

	// 3. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	deadline := "none"
	if !cfg.Deadline.IsZero() {
		deadline = formatDate(cfg.Deadline)
	}
	if _, err := fmt.Fprintf(w, "Showing %d subjects (target: %s, deadline: %s, trials: %d)\n",
		len(results), fmtFloat(cfg.TargetScore), deadline, cfg.TrialCount); err != nil {
		return err
	}
	run := "not recorded"
	if runID > 0 {
		run = fmt.Sprintf("#%d", runID)
	}
	if _, err := fmt.Fprintf(w, "Projection completed in %v. Run: %s. Store backend: %s\n", duration, run, cfg.Backend); err != nil {
		return err
	}
	return nil
}

// writeCSVProjections writes projection results in CSV format.
func writeCSVProjections(w io.Writer, results []schema.ProjectionResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"subject",
		"current_mean",
		"current_std_dev",
		"trend",
		"sample_count",
		"horizon_days",
		"effective_days",
		"slope_growth",
		"projected_mean",
		"time_uncertainty",
		"pooled_std_dev",
		"target_score",
		"z_score",
		"probability_percent",
		"analytic_percent",
		"label",
		"trials",
		"seed",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range results {
			rec := []string{
				strconv.Itoa(i + 1),
				r.SubjectID,
				fmtFloat(r.CurrentMean),
				fmtFloat(r.CurrentStdDev),
				string(r.Trend),
				fmt.Sprintf(intFmt, r.SampleCount),
				fmtFloat(r.HorizonDays),
				fmtFloat(r.EffectiveDays),
				fmtFloat(r.SlopeGrowth),
				fmtFloat(r.ProjectedMean),
				fmtFloat(r.TimeUncertainty),
				fmtFloat(r.PooledStdDev),
				fmtFloat(r.TargetScore),
				fmtFloat(r.ZScore),
				fmtFloat(r.ProbabilityPercent),
				fmtFloat(r.AnalyticPercent),
				schema.GetProbabilityLabel(r.ProbabilityPercent),
				fmt.Sprintf(intFmt, r.Trials),
				strconv.FormatInt(r.Seed, 10),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONProjections writes projection results with rank and label added.
func writeJSONProjections(w io.Writer, results []schema.ProjectionResult) error {
	return writeJSON(w, schema.EnrichProjections(results))
}

// labelPair holds the plain and colored label functions of one label kind.
type labelPair struct {
	plain   func(float64) string
	colored func(float64) string
}

var (
	probabilityLabelPair = labelPair{plain: schema.GetProbabilityLabel, colored: contract.GetColorProbabilityLabel}
	urgencyLabelPair     = labelPair{plain: schema.GetUrgencyLabel, colored: contract.GetColorUrgencyLabel}
)

// labelFor picks the colored label when colors are enabled.
func labelFor(cfg *contract.Config, v float64, pair labelPair) string {
	if cfg.UseColors {
		return pair.colored(v)
	}
	return pair.plain(v)
}
