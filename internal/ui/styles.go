package ui

import "github.com/charmbracelet/lipgloss"

var (
	stepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Step renders a step heading.
func Step(s string) string { return stepStyle.Render(s) }

// OK renders a success line.
func OK(s string) string { return okStyle.Render("✅ " + s) }

// Warn renders a non-fatal warning.
func Warn(s string) string { return warnStyle.Render("⚠️  " + s) }

// Fail renders a fatal error line.
func Fail(s string) string { return failStyle.Render("❌ " + s) }

// Hint renders an indented follow-up line.
func Hint(s string) string { return hintStyle.Render("   " + s) }
