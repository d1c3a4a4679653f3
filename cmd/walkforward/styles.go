package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// LabelStyle for the left column of key/value blocks.
	LabelStyle = lipgloss.NewStyle().Faint(true).Width(28)

	// PanelStyle frames summary blocks.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

var gradeColors = map[types.Grade]lipgloss.Color{
	types.GradePass:    lipgloss.Color("10"),
	types.GradeObserve: lipgloss.Color("11"),
	types.GradeFail:    lipgloss.Color("9"),
}

// GradeStyle colors a grade.
func GradeStyle(g types.Grade) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(gradeColors[g])
}
