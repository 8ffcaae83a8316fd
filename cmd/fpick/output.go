package main

import (
	"fpick/internal/config"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryStyle = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle()
	errorStyle   = lipgloss.NewStyle()
	infoStyle    = lipgloss.NewStyle()
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// applyColors colors the command output after the configured theme
func applyColors(c *config.Config) {
	primaryStyle = primaryStyle.Foreground(lipgloss.Color(c.Theme.Primary))
	successStyle = successStyle.Foreground(lipgloss.Color(c.Theme.Success))
	errorStyle = errorStyle.Foreground(lipgloss.Color(c.Theme.Error))
	infoStyle = infoStyle.Foreground(lipgloss.Color(c.Theme.Info))
}

func primaryText(s string) string { return primaryStyle.Render(s) }
func successText(s string) string { return successStyle.Render(s) }
func errorText(s string) string   { return errorStyle.Render(s) }
func infoText(s string) string    { return infoStyle.Render(s) }
func mutedText(s string) string   { return mutedStyle.Render(s) }
