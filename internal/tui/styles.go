package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("39")  // blue
	accentColor  = lipgloss.Color("76")  // green
	mutedColor   = lipgloss.Color("240") // gray
	textColor    = lipgloss.Color("252") // light gray
)

var (
	listStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Padding(0, 1)

	itemSelectedStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	previewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	searchStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Padding(0, 1)
)
