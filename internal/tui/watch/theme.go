// Package watch implements the vaultpay delivery watch TUI. It polls the
// operational API and renders webhook deliveries as they are reconciled.
package watch

import "github.com/charmbracelet/lipgloss"

// Theme centralizes all styling for the watch TUI.
type Theme struct {
	// Outcome colors
	Reconciled lipgloss.Style
	Skipped    lipgloss.Style
	Ignored    lipgloss.Style
	Failed     lipgloss.Style

	// UI elements
	Border    lipgloss.Style
	Title     lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
	StatusOK  lipgloss.Style
	StatusBad lipgloss.Style
}

func NewDefaultTheme() Theme {
	purple := lipgloss.Color("#874BFD")

	return Theme{
		Reconciled: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		Skipped:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		Ignored:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Failed:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		StatusOK:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		StatusBad: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	}
}
