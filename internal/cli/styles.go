// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gst-factory/partner-kpi/internal/grading"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#667EEA")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4CAF50")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FF9800")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#F44336")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#2196F3")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true)

	// gradeStyles follow the dashboard card colors.
	gradeStyles = map[grading.Grade]lipgloss.Style{
		grading.A: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50")),
		grading.B: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		grading.C: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF9800")),
		grading.D: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F44336")),
		grading.E: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9C27B0")),
	}
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	FactoryIcon = "🏭"
	ChartIcon   = "📊"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the factory icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(FactoryIcon + " " + title)
}

// FormatGrade colors an already padded grade cell.
func FormatGrade(g grading.Grade, cell string) string {
	style, ok := gradeStyles[g]
	if !ok {
		return cell
	}
	return style.Render(cell)
}
