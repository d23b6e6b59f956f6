package cmd

import (
	"fmt"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/ingest"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/outwriter"
	"github.com/spf13/cobra"
)

// recordsCmd groups the commands that manage practice results.
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Add, import and list practice results",
	Long: `Manage the practice results that every projection and recommendation is built on.

Each result records how many questions of a subject (and optionally a topic) were
answered correctly. Adding or importing results also updates the mastery estimate
of each touched topic.

Subcommands:
  add    - Record a single result
  import - Import results from a JSON or CSV file
  list   - List stored results`,
}

// recordsAddCmd appends one result.
var recordsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a single practice result",
	Long: `Record one practice result and update the mastery of its topic.

Examples:
  # 14 of 20 algebra questions right, today
  coach records add --subject math --topic algebra --correct 14 --total 20

  # A result from last week
  coach records add --subject law --topic contracts --correct 8 --total 10 --date "7 days ago"`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		fields, err := recordFields(cmd)
		if err != nil {
			contract.LogFatal("Invalid record", err)
		}
		if err := core.ExecuteRecordsAdd(rootCtx, cfg, storeManager, outwriter.NewOutWriter(), fields); err != nil {
			contract.LogFatal("Cannot add record", err)
		}
	},
}

// recordFields collects the add flags into loosely typed record fields.
func recordFields(cmd *cobra.Command) (map[string]any, error) {
	flags := cmd.Flags()
	topic, _ := flags.GetString("topic")
	correct, _ := flags.GetInt("correct")
	total, _ := flags.GetInt("total")
	dateStr, _ := flags.GetString("date")
	id, _ := flags.GetString("id")

	taken := cfg.Now
	if dateStr != "" {
		t, err := contract.ParseDate(dateStr, cfg.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid --date value: %w", err)
		}
		taken = t
	}
	return map[string]any{
		"id":        id,
		"subject":   cfg.Subject,
		"topic":     topic,
		"correct":   correct,
		"total":     total,
		"timestamp": taken,
	}, nil
}

// recordsImportCmd imports a results file.
var recordsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import practice results from a JSON or CSV file",
	Long: `Import practice results from a JSON array or a CSV file with a header row.

Column and key names are matched loosely (subject, subject_id, SubjectId...). Rows
without a subject or with unusable counts are skipped and reported.

Examples:
  # Import a CSV export
  coach records import results.csv

  # Import a file without a recognised extension
  coach records import export.txt --format json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		formatStr, _ := cmd.Flags().GetString("format")
		var format ingest.Format
		if formatStr != "" {
			parsed, err := ingest.ParseFormat(formatStr)
			if err != nil {
				contract.LogFatal("Invalid import format", err)
			}
			format = parsed
		}
		if err := core.ExecuteRecordsImport(rootCtx, cfg, storeManager, outwriter.NewOutWriter(), args[0], format); err != nil {
			contract.LogFatal("Cannot import records", err)
		}
	},
}

// recordsListCmd lists stored results.
var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored practice results",
	Long: `List the stored practice results in time order.

Examples:
  coach records list --subject math
  coach records list --output json`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteRecordsList, "Cannot list records"),
}
