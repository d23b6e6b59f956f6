package contract

import (
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
	GoodColor     = color.New(color.FgGreen, color.Bold)   // GoodColor marks a favourable outcome.
)

// GetColorProbabilityLabel returns a colored probability label for console output.
// A high probability is good news, so the palette runs the other way from urgency.
func GetColorProbabilityLabel(percent float64) string {
	text := schema.GetProbabilityLabel(percent)
	switch text {
	case "Likely":
		return GoodColor.Sprint(text)
	case "Possible":
		return LowColor.Sprint(text)
	case "Unlikely":
		return ModerateColor.Sprint(text)
	default: // "Remote"
		return CriticalColor.Sprint(text)
	}
}

// GetColorUrgencyLabel returns a colored urgency label for console output.
func GetColorUrgencyLabel(composite float64) string {
	text := schema.GetUrgencyLabel(composite)
	switch text {
	case "Critical":
		return CriticalColor.Sprint(text)
	case "High":
		return HighColor.Sprint(text)
	case "Moderate":
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// GetColorPriority returns a colored goal priority for console output.
func GetColorPriority(p schema.Priority) string {
	switch p {
	case schema.PriorityHigh:
		return CriticalColor.Sprint(string(p))
	case schema.PriorityMedium:
		return ModerateColor.Sprint(string(p))
	default:
		return LowColor.Sprint(string(p))
	}
}
