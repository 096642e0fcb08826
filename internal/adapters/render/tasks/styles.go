package tasks

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	taskTitle   lipgloss.Style
	doneTitle   lipgloss.Style
	marker      lipgloss.Style
	doneMarker  lipgloss.Style
	description lipgloss.Style
	meta        lipgloss.Style
	empty       lipgloss.Style
	row         lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true),
		header:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		taskTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		doneTitle:   lipgloss.NewStyle().Faint(true).Strikethrough(true),
		marker:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		doneMarker:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		description: lipgloss.NewStyle().Faint(true),
		meta:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		empty:       lipgloss.NewStyle().Faint(true),
		row:         lipgloss.NewStyle().MarginTop(0),
	}
}
