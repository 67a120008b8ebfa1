package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	stageColor   = lipgloss.Color("#3B82F6") // Blue
)

// Styles for table output.
var (
	// SuccessStyle for complete and ready states.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// WarningStyle for in-progress and lagging states.
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// ErrorStyle for failed states.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// StageStyle for lifecycle stage names.
	StageStyle = lipgloss.NewStyle().
			Foreground(stageColor)

	// MutedStyle for unknown or empty values.
	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// StateStyle picks the style for a state or stage value.
func StateStyle(value string) lipgloss.Style {
	switch strings.ToLower(value) {
	case "complete", "ready", "moved", "ok", "qc complete", "true":
		return SuccessStyle
	case "pending", "in progress", "lagging", "mirroring", "analysis pending", "skipped":
		return WarningStyle
	case "failed", "error", "incomplete", "false":
		return ErrorStyle
	case "incoming", "analysis", "outgoing":
		return StageStyle
	default:
		return MutedStyle
	}
}
