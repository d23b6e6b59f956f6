package cmd

import (
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// masteryCmd groups the commands that manage topic mastery estimates.
var masteryCmd = &cobra.Command{
	Use:   "mastery",
	Short: "Inspect and maintain topic mastery estimates",
	Long: `Inspect and maintain the Bayesian mastery estimate kept for every topic.

Each estimate is a mean between 0 and 1 with a variance that shrinks as more
results are recorded.

Subcommands:
  show    - Show the stored estimates
  rebuild - Recompute every estimate from the stored results
  reset   - Zero the estimate of one topic, or of every topic`,
}

// masteryShowCmd prints the stored estimates.
var masteryShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the stored mastery estimates",
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteMasteryShow, "Cannot show mastery"),
}

// masteryRebuildCmd folds every stored result again.
var masteryRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute every mastery estimate from the stored results",
	Long: `Discard the stored estimates and fold every stored result again.

Use this after changing the mastery policy in the config file or after a reset.

Examples:
  coach mastery rebuild`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteMasteryRebuild, "Cannot rebuild mastery"),
}

// masteryResetCmd zeroes estimates.
var masteryResetCmd = &cobra.Command{
	Use:   "reset [topic]",
	Short: "Zero the mastery estimate of a topic, or of every topic",
	Long: `Zero the mastery estimate of one topic, or of every topic when none is given.

The stored results are kept; the next recorded result starts the topic afresh.

Examples:
  coach mastery reset algebra
  coach mastery reset`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		topic := ""
		if len(args) == 1 {
			topic = args[0]
		}
		if err := core.ExecuteMasteryReset(rootCtx, storeManager, topic); err != nil {
			contract.LogFatal("Cannot reset mastery", err)
		}
	},
}
