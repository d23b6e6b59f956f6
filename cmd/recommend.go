package cmd

import (
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core"
	"github.com/spf13/cobra"
)

// recommendCmd ranks topics by urgency.
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the topic to study next.",
	Long: `Rank topics by study urgency and recommend the most urgent one.

Urgency combines:
- Deficiency: how far the topic's mastery estimate is from full mastery
- Recency: how long ago the topic was last practised
- Crunch: how close the deadline is

Examples:
  # What should I study next?
  coach recommend --deadline 2025-06-01

  # Only consider one subject
  coach recommend --subject law --limit 5`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteRecommend, "Cannot run recommendation"),
}

// goalsCmd turns the urgency ranking into study goals.
var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Generate study goals for the most urgent topics.",
	Long: `Generate a question count for each of the most urgent topics.

The count grows with the topic's deficiency and the deadline crunch, bounded
between 5 and 40 questions per topic.

Examples:
  # Today's three goals
  coach goals --limit 3 --deadline "in 30 days"`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteGoals, "Cannot generate goals"),
}
