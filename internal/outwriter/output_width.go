package outwriter

import (
	"os"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"golang.org/x/term"
)

// getTerminalWidth returns the --width override, the detected terminal width, or 80.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}

	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80
	}
	return detectedWidth
}

// getMaxTableNameWidth calculates the maximum width for subject and topic names in
// table output based on terminal width and the number of other columns.
func getMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	termWidth := getTerminalWidth(cfg)

	// Reserve generous space for table borders, separators, and padding
	baseWidth := fixedWidth + 20

	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 48 {
		// Maximum name width to prevent overly wide tables
		return 48
	}
	return available
}

// Fixed column widths (with padding) of each table layout.
const (
	projectionBaseWidth   = 45 // Rank + Mean + Projected + Target + Prob + Label
	projectionDetailWidth = 50 // StdDev + Trend + Horizon + EffDays + Pooled + Z + Analytic
	urgencyBaseWidth      = 40 // Rank + Mastery + Days + Score + Label
	urgencyDetailWidth    = 30 // Deficiency + Recency + Crunch
	goalBaseWidth         = 30 // Rank + Questions + Priority
	goalDetailWidth       = 35 // Goal text
)
