package tui

import "github.com/charmbracelet/lipgloss"

var (
	dimColor   = lipgloss.Color("240")
	errorColor = lipgloss.Color("196")

	iconPending  = lipgloss.NewStyle().Foreground(dimColor).Render("○")
	iconComplete = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("✓")
	iconError    = lipgloss.NewStyle().Foreground(errorColor).Render("✗")
	iconSkipped  = lipgloss.NewStyle().Foreground(dimColor).Render("–")

	taskNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	taskDimStyle  = lipgloss.NewStyle().Foreground(dimColor)
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	demotedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)

	footerStyle = lipgloss.NewStyle().Foreground(dimColor).MarginTop(1)

	failureHeaderStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// StatusIcon returns the icon for a task status.
func StatusIcon(status TaskStatus, spinnerFrame string) string {
	switch status {
	case StatusRunning:
		return spinnerStyle.Render(spinnerFrame)
	case StatusComplete:
		return iconComplete
	case StatusError:
		return iconError
	case StatusSkipped:
		return iconSkipped
	default:
		return iconPending
	}
}
