package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Viewer states.
const (
	StateWindowList = iota
	StateWindowDetail
)

// Model is the Bubble Tea model for browsing a walk-forward report.
type Model struct {
	state       int
	report      types.WalkForwardReport
	windowTable table.Model
	selected    int
	width       int
	height      int
}

// NewModel creates a viewer positioned on the window list.
func NewModel(report types.WalkForwardReport) Model {
	return Model{
		state:       StateWindowList,
		report:      report,
		windowTable: NewWindowTable(report.Windows, true),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state == StateWindowDetail {
				m.state = StateWindowList
			}

			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.windowTable.SetWidth(msg.Width)
		m.windowTable.SetHeight(max(min(len(m.report.Windows), msg.Height-22), 3))

		return m, nil
	}

	switch m.state {
	case StateWindowList:
		return m.updateWindowList(msg)
	case StateWindowDetail:
		return m.updateWindowDetail(msg)
	}

	return m, nil
}

func (m Model) updateWindowList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if len(m.report.Windows) > 0 {
			m.selected = m.windowTable.Cursor()
			m.state = StateWindowDetail
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.windowTable, cmd = m.windowTable.Update(msg)

	return m, cmd
}

func (m Model) updateWindowDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "h":
		if m.selected > 0 {
			m.selected--
		}
	case "right", "l":
		if m.selected < len(m.report.Windows)-1 {
			m.selected++
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateWindowList:
		s.WriteString(RenderAggregate(m.report))
		s.WriteString("\n\n")

		if len(m.report.Windows) == 0 {
			s.WriteString("No windows were evaluated.\n")
		} else {
			s.WriteString(m.windowTable.View())
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("↑/↓: move | Enter: window details | q: quit"))

	case StateWindowDetail:
		s.WriteString(RenderWindowDetail(m.report.Windows[m.selected]))
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render(fmt.Sprintf("←/→: window %d of %d | Esc: back | q: quit", m.selected+1, len(m.report.Windows))))
	}

	return s.String()
}

// RenderWindowDetail renders the optimization, quality and statistics of one window.
func RenderWindowDetail(w types.WindowResult) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render(fmt.Sprintf("Window %d", w.Window.Index)))
	s.WriteString(HelpStyle.Render(fmt.Sprintf("  training %s..%s  testing %s..%s",
		w.Window.TrainingStart.Format(dateLayout), w.Window.TrainingEnd.Format(dateLayout),
		w.Window.TestingStart.Format(dateLayout), w.Window.TestingEnd.Format(dateLayout))))
	s.WriteString("\n")

	if w.Failed() {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error [%d]: %s", w.ErrorCode, w.Error)))
		s.WriteString("\n")
	}

	if o := w.Optimization; o != nil {
		s.WriteString("\n")
		s.WriteString(TitleStyle.Render("Optimization"))
		s.WriteString(HelpStyle.Render(fmt.Sprintf("  %d trials, %d failed, %d iterations, score %s -> %s",
			o.Trials, o.Failures, o.Iterations, FormatNumber(o.BaselineScore, 3), FormatNumber(o.BestScore, 3))))
		s.WriteString("\n")

		if o.Error != "" {
			s.WriteString("  " + ErrorStyle.Render(o.Error) + "\n")
		}

		if len(o.Changes) == 0 {
			s.WriteString("  no parameter changed\n")
		}

		for _, c := range o.Changes {
			s.WriteString(fmt.Sprintf("  %s.%s: %g -> %g\n", c.Scope, c.Name, c.From, c.To))
		}
	}

	s.WriteString("\n")
	s.WriteString(RenderSimulation("Training", w.Training))
	s.WriteString("\n")
	s.WriteString(RenderSimulation("Testing", w.Testing))
	s.WriteString("\n")

	q := w.Analysis.OOSQuality
	s.WriteString(TitleStyle.Render("OOS quality"))
	s.WriteString(HelpStyle.Render(fmt.Sprintf("  %.3f (raw %.3f), passed %t", q.Value, q.RawValue, q.Passed)))
	s.WriteString("\n")

	for _, c := range q.Components {
		mark := " "
		if c.Passed {
			mark = "✓"
		}

		s.WriteString(fmt.Sprintf("  %s %-18s %10s vs %-10s score %.2f x %.2f\n",
			mark, c.Metric, FormatNumber(c.Value, 2), FormatNumber(c.Threshold, 2), c.Score, c.Weight))
	}

	a := w.Analysis
	s.WriteString("\n")
	s.WriteString(keyValues([][2]string{
		{"PSR / DSR", fmt.Sprintf("%s / %s", pct(a.PSRProbability), pct(a.DSRProbability))},
		{"Sample Sharpe", FormatNumber(a.SampleSharpe, 4)},
		{"Skewness / kurtosis", fmt.Sprintf("%s / %s", FormatNumber(a.Skewness, 3), FormatNumber(a.Kurtosis, 3))},
		{"Autocorrelation", FormatNumber(a.Autocorrelation, 3)},
		{"Samples", fmt.Sprintf("%d (effective %.1f)", a.SampleCount, a.EffectiveSampleCount)},
		{"Min track record", FormatNumber(a.MinTrackRecordLength, 0)},
		{"Effective trials", fmt.Sprintf("%.2f", a.EffectiveTrials)},
		{"Credibility / weight", fmt.Sprintf("%.3f / %.3f", a.Credibility, a.StatWeight)},
		{"Window score", fmt.Sprintf("%.3f", a.WindowScore)},
	}))

	return s.String()
}
