package cmd

import (
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core"
	"github.com/spf13/cobra"
)

// projectCmd projects each subject toward the target score.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project each subject's score and the chance of reaching the target.",
	Long: `Project the score of every subject to the deadline and estimate how likely it is
to reach the target.

For each subject the projection:
- Averages the recorded scores and measures their spread
- Adds the growth expected from the remaining study days, with diminishing returns
- Widens the uncertainty the further away the deadline is
- Runs a seeded Monte Carlo simulation to estimate the success probability

Subjects are listed most at-risk first. Every run is recorded in the store so
projections can be compared over time (see 'coach db runs').

Examples:
  # Project every subject toward 75 with an exam in six weeks
  coach project --target 75 --deadline "in 6 weeks"

  # Reproducible projection of one subject with all the internals
  coach project --subject math --seed 42 --detail

  # Export projections for a spreadsheet
  coach project --output csv --output-file projections.csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteProject, "Cannot run projection"),
}
