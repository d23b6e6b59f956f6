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

// writeUrgencyTable writes the ranked topics followed by the recommendation line.
func writeUrgencyTable(w io.Writer, rec schema.Recommendation, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if !rec.HasSuggestion {
		_, err := fmt.Fprintln(w, rec.Text)
		return err
	}

	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Topic", "Mastery %", "Days Idle", "Score", "Label"}
	fixed := urgencyBaseWidth
	if cfg.Detail {
		headers = append(headers, "Deficiency", "Recency", "Crunch")
		fixed += urgencyDetailWidth
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, fixed)
	var data [][]string
	for i, s := range rec.Ranked {
		days := "-"
		if s.HasActivity {
			days = fmtFloat(s.DaysSinceLast)
		}
		row := []string{
			strconv.Itoa(i + 1), // Rank
			contract.TruncateText(s.TopicID, nameWidth),               // Topic
			fmtFloat(100 * s.MeanEstimate),                            // Mastery %
			days,                                                      // Days Idle
			fmtFloat(s.CompositeScore),                                // Score
			labelFor(cfg, s.CompositeScore, urgencyLabelPair),         // Label
		}
		if cfg.Detail {
			row = append(
				row,
				fmtFloat(s.Deficiency),       // Deficiency
				fmtFloat(s.RecencyWeight),    // Recency
				fmtFloat(s.CrunchMultiplier), // Crunch
			)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "👉 %s\n", rec.Text); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranked %d topics in %v. Store backend: %s\n", len(rec.Ranked), duration, cfg.Backend); err != nil {
		return err
	}
	return nil
}

// writeCSVUrgency writes ranked urgency scores in CSV format.
func writeCSVUrgency(w io.Writer, scores []schema.UrgencyScore, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"topic",
		"subject",
		"mean_estimate",
		"deficiency",
		"days_since_last",
		"recency_weight",
		"crunch_multiplier",
		"composite_score",
		"label",
		"recommendation",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, s := range scores {
			days := ""
			if s.HasActivity {
				days = fmtFloat(s.DaysSinceLast)
			}
			rec := []string{
				strconv.Itoa(i + 1),
				s.TopicID,
				s.SubjectID,
				fmtFloat(s.MeanEstimate),
				fmtFloat(s.Deficiency),
				days,
				fmtFloat(s.RecencyWeight),
				fmtFloat(s.CrunchMultiplier),
				fmtFloat(s.CompositeScore),
				schema.GetUrgencyLabel(s.CompositeScore),
				s.RecommendationText,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONRecommendation writes the recommendation with an enriched ranking.
func writeJSONRecommendation(w io.Writer, rec schema.Recommendation) error {
	type JSONRecommendation struct {
		HasSuggestion bool                     `json:"has_suggestion"`
		Text          string                   `json:"text"`
		Top           *schema.UrgencyScore     `json:"top,omitempty"`
		Ranked        []schema.EnrichedUrgency `json:"ranked"`
	}
	return writeJSON(w, JSONRecommendation{
		HasSuggestion: rec.HasSuggestion,
		Text:          rec.Text,
		Top:           rec.Top,
		Ranked:        schema.EnrichUrgency(rec.Ranked),
	})
}

// writeGoalTable writes generated study goals as a table.
func writeGoalTable(w io.Writer, goals []schema.Goal, cfg *contract.Config, duration time.Duration) error {
	if len(goals) == 0 {
		_, err := fmt.Fprintln(w, "No goals: record some results to generate study goals")
		return err
	}

	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Topic", "Questions", "Priority"}
	fixed := goalBaseWidth
	if cfg.Detail {
		headers = append(headers, "Goal")
		fixed += goalDetailWidth
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, fixed)
	var data [][]string
	total := 0
	for _, g := range goals {
		priority := string(g.Priority)
		if cfg.UseColors {
			priority = contract.GetColorPriority(g.Priority)
		}
		row := []string{
			strconv.Itoa(g.Rank),
			contract.TruncateText(g.TopicID, nameWidth),
			strconv.Itoa(g.Questions),
			priority,
		}
		if cfg.Detail {
			row = append(row, g.Text)
		}
		data = append(data, row)
		total += g.Questions
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Generated %d goals (%d questions in total) in %v\n", len(goals), total, duration); err != nil {
		return err
	}
	return nil
}

// writeCSVGoals writes generated study goals in CSV format.
func writeCSVGoals(w io.Writer, goals []schema.Goal) error {
	header := []string{"rank", "topic", "subject", "questions", "priority", "goal"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, g := range goals {
			rec := []string{
				strconv.Itoa(g.Rank),
				g.TopicID,
				g.SubjectID,
				strconv.Itoa(g.Questions),
				string(g.Priority),
				g.Text,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
