// Package tui implements the progress dashboard shown by "voxtrace
// build"; "voxtrace render" does not use it. Grounded on the teacher's
// bubbletea dashboards (internal/tui/models, cmd/arx/tui).
package tui

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles the dashboard model renders with. The
// teacher keys its palette off a "dark"/"light"/"auto" theme name
// (internal/tui/models' styles.GetThemeStyles); this is the same idea
// trimmed to what a single progress view needs.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Bar     lipgloss.Style
	BarDone lipgloss.Style
	Footer  lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds a Styles for the named theme ("dark", "light", or
// anything else, which falls back to dark).
func NewStyles(theme string) Styles {
	primary := lipgloss.Color("#05B")
	muted := lipgloss.Color("#666")
	if theme == "light" {
		primary = lipgloss.Color("#0066CC")
		muted = lipgloss.Color("#999999")
	}

	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		Label:   lipgloss.NewStyle().Foreground(muted),
		Value:   lipgloss.NewStyle().Bold(true),
		Bar:     lipgloss.NewStyle().Foreground(muted),
		BarDone: lipgloss.NewStyle().Foreground(lipgloss.Color("#2A2")),
		Footer:  lipgloss.NewStyle().Faint(true),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C33")),
	}
}
