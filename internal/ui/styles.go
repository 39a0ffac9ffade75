package ui

import "github.com/charmbracelet/lipgloss"

// This file centralizes the lipgloss styles used across the TUI.

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("63")). // Purple
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			PaddingLeft(2)

	// Detail View (for the run browser)
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")). // Light purple
				MarginBottom(1)

	detailTextStyle = lipgloss.NewStyle().
			MarginLeft(2)

	// Assessment tiers
	scoreExcellentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("46")). // Green
				Bold(true)
	scoreGoodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // Cyan/Teal
	scoreFairStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")) // Gold
	scoreBaselineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")) // Orange
	scorePoorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)
)

// RenderAssessment colors an assessment label according to the average
// score tier it belongs to.
func RenderAssessment(avgScore float64, label string) string {
	switch {
	case avgScore >= 800:
		return scoreExcellentStyle.Render(label)
	case avgScore >= 600:
		return scoreGoodStyle.Render(label)
	case avgScore >= 400:
		return scoreFairStyle.Render(label)
	case avgScore >= 200:
		return scoreBaselineStyle.Render(label)
	default:
		return scorePoorStyle.Render(label)
	}
}
