package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	TaskIcon  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	TaskTitle = lipgloss.NewStyle().Bold(true)

	TaskDivider = lipgloss.NewStyle().Foreground(Faded).Padding(0, 1).Render("∙")

	// done-date coloring, from freshly done to long overdue
	DoneFresh = lipgloss.NewStyle().Foreground(Green)
	DoneAging = lipgloss.NewStyle().Foreground(Yellow)
	DoneStale = lipgloss.NewStyle().Foreground(Red)
	DoneNever = lipgloss.NewStyle().Foreground(Secondary)
)

// DoneStyle picks a style for "last done n days ago".
func DoneStyle(daysAgo int) lipgloss.Style {
	switch {
	case daysAgo < 0:
		return DoneNever
	case daysAgo <= 3:
		return DoneFresh
	case daysAgo <= 14:
		return DoneAging
	default:
		return DoneStale
	}
}
