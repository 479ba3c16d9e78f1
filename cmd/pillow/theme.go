package main

import "github.com/charmbracelet/lipgloss"

type theme struct {
	heading     lipgloss.Style
	info        lipgloss.Style
	dim         lipgloss.Style
	percent     lipgloss.Style
	interrupted lipgloss.Style
	err         lipgloss.Style
	frame       lipgloss.Style
	placeholder lipgloss.Style
}

func newTheme(dark bool, width int) theme {
	fg, bg := lipgloss.Color("#1E1E2E"), lipgloss.Color("#FFFFFF")
	border, placeholderBg := lipgloss.Color("#9CA3AF"), lipgloss.Color("#9CA3AF")
	if dark {
		fg, bg = lipgloss.Color("#F9FAFB"), lipgloss.Color("#111827")
		border, placeholderBg = lipgloss.Color("#6B7280"), lipgloss.Color("#4B5563")
	}

	center := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Background(bg)

	return theme{
		heading: center.
			Foreground(lipgloss.Color("86")).
			Bold(true),
		info: center.
			Foreground(fg),
		dim: center.
			Foreground(lipgloss.Color("#6C7086")),
		percent: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true),
		interrupted: center.
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true),
		err: center.
			Foreground(lipgloss.Color("#F38BA8")),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		placeholder: lipgloss.NewStyle().
			Width(artCols).
			Height(artCols/2).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(placeholderBg),
	}
}
