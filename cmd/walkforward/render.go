package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/evaluator"
)

const dateLayout = "2006-01-02"

// FormatNumber renders a metric, spelling out the undefined and infinite cases.
func FormatNumber(n types.Number, decimals int) string {
	v := n.Float()

	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	return fmt.Sprintf("%.*f", decimals, v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func keyValues(rows [][2]string) string {
	lines := make([]string, 0, len(rows))

	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(r[0]), r[1]))
	}

	return strings.Join(lines, "\n")
}

// RenderSimulation renders the headline metrics of one simulation.
func RenderSimulation(title string, r types.SimulationResult) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render(title))
	s.WriteString("\n")

	if r.Failed() {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %s", r.Error)))

		return PanelStyle.Render(s.String())
	}

	s.WriteString(keyValues([][2]string{
		{"Range", fmt.Sprintf("%s to %s", r.Range.Start.Format(dateLayout), r.Range.End.Format(dateLayout))},
		{"Annualized return", FormatNumber(r.AnnualizedReturn, 2) + "%"},
		{"Buy & hold annualized", FormatNumber(r.BuyHoldAnnualizedReturn, 2) + "%"},
		{"Max drawdown", FormatNumber(r.MaxDrawdownPct, 2) + "%"},
		{"Sharpe", FormatNumber(r.SharpeRatio, 3)},
		{"Sortino", FormatNumber(r.SortinoRatio, 3)},
		{"Win rate", FormatNumber(r.WinRatePct, 1) + "%"},
		{"Trades", fmt.Sprintf("%d", r.TradesCount)},
		{"Max consecutive losses", fmt.Sprintf("%d", r.MaxConsecutiveLosses)},
		{"Final equity", fmt.Sprintf("%.2f", r.FinalEquity(0))},
	}))

	return PanelStyle.Render(s.String())
}

// RenderAggregate renders the graded summary of a walk-forward run.
func RenderAggregate(report types.WalkForwardReport) string {
	a := report.Aggregate

	var s strings.Builder

	s.WriteString(TitleStyle.Render("Walk-forward summary"))
	s.WriteString("  ")
	s.WriteString(GradeStyle(a.Grade).Render(strings.ToUpper(string(a.Grade))))

	if a.Downgraded {
		s.WriteString(HelpStyle.Render(" (downgraded: combined DSR not positive)"))
	}

	s.WriteString("\n")

	if report.Error != "" {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error [%d]: %s", report.ErrorCode, report.Error)))
		s.WriteString("\n")
	}

	for _, issue := range report.PlanIssues {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Window %d: %s", issue.WindowIndex, issue.Reason)))
		s.WriteString("\n")
	}

	s.WriteString(keyValues([][2]string{
		{"Run", report.RunID},
		{"Windows", fmt.Sprintf("%d evaluated of %d", a.EvaluatedWindows, a.WindowCount)},
		{"Total score", fmt.Sprintf("%.3f", a.TotalScore)},
		{"Median OOS quality", fmt.Sprintf("%.3f", a.MedianQuality)},
		{"Median window score", fmt.Sprintf("%.3f", a.MedianWindowScore)},
		{"Median PSR / DSR", fmt.Sprintf("%s / %s", pct(a.MedianPSR), pct(a.MedianDSR))},
		{"PSR pass ratio", pct(a.PSRPassRatio)},
		{"Median WFE", FormatNumber(a.MedianWFE, 1) + "%"},
		{"WFE adjustment", fmt.Sprintf("%.2f", a.WFEAdjustment)},
		{"Median testing return", FormatNumber(a.MedianTestingAnnualizedReturn, 2) + "%"},
		{"Median testing Sharpe", FormatNumber(a.MedianTestingSharpe, 3)},
		{"Combined DSR", pct(a.Combined.DSR)},
		{"Combined samples", fmt.Sprintf("%d (effective %.1f)", a.CombinedSampleCount, a.CombinedEffectiveSampleCount)},
	}))

	if report.Cancelled {
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Run was cancelled; only started windows are included."))
	}

	return PanelStyle.Render(s.String())
}

// RenderStrategies renders the registered strategies and their parameters.
func RenderStrategies(infos []evaluator.StrategyInfo) string {
	var s strings.Builder

	for i, info := range infos {
		if i > 0 {
			s.WriteString("\n")
		}

		roles := make([]string, len(info.Roles))
		for j, r := range info.Roles {
			roles[j] = string(r)
		}

		s.WriteString(TitleStyle.Render(string(info.ID)))
		s.WriteString(HelpStyle.Render(" " + strings.Join(roles, ", ")))
		s.WriteString("\n")

		for _, p := range info.Params {
			s.WriteString(fmt.Sprintf("  %-16s default %-8g scan [%g, %g]\n", p.Name, p.Default, p.Min, p.Max))
		}
	}

	return s.String()
}

// WindowColumns are the columns of the per-window table.
func WindowColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Testing", Width: 23},
		{Title: "Return %", Width: 9},
		{Title: "Sharpe", Width: 7},
		{Title: "Max DD %", Width: 9},
		{Title: "Quality", Width: 7},
		{Title: "PSR", Width: 7},
		{Title: "DSR", Width: 7},
		{Title: "WFE %", Width: 8},
		{Title: "Score", Width: 6},
		{Title: "Status", Width: 12},
	}
}

// WindowRows turns window results into table rows.
func WindowRows(windows []types.WindowResult) []table.Row {
	rows := make([]table.Row, 0, len(windows))

	for _, w := range windows {
		a := w.Analysis

		status := "fail"

		switch {
		case w.Failed():
			status = "error"
		case a.Insufficient:
			status = "insufficient"
		case a.OOSQuality.Passed:
			status = "pass"
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("%d", w.Window.Index),
			fmt.Sprintf("%s..%s", w.Window.TestingStart.Format(dateLayout), w.Window.TestingEnd.Format(dateLayout)),
			FormatNumber(w.Testing.AnnualizedReturn, 2),
			FormatNumber(w.Testing.SharpeRatio, 2),
			FormatNumber(w.Testing.MaxDrawdownPct, 2),
			fmt.Sprintf("%.3f", a.OOSQuality.Value),
			pct(a.PSRProbability),
			pct(a.DSRProbability),
			FormatNumber(a.WalkForwardEfficiency, 1),
			fmt.Sprintf("%.3f", a.WindowScore),
			status,
		})
	}

	return rows
}

// NewWindowTable creates the per-window table.
func NewWindowTable(windows []types.WindowResult, focused bool) table.Model {
	rows := WindowRows(windows)

	t := table.New(
		table.WithColumns(WindowColumns()),
		table.WithRows(rows),
		table.WithFocused(focused),
		table.WithHeight(max(len(rows), 1)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)

	if focused {
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
	} else {
		s.Selected = lipgloss.NewStyle()
	}

	t.SetStyles(s)

	return t
}

// RenderWalkForward renders the summary followed by the window table.
func RenderWalkForward(report types.WalkForwardReport) string {
	out := RenderAggregate(report)

	if len(report.Windows) > 0 {
		out += "\n" + NewWindowTable(report.Windows, false).View()
	}

	return out
}
