package main

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/stretchr/testify/assert"
)

func viewerReport() types.WalkForwardReport {
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	windows := make([]types.WindowResult, 3)
	for i := range windows {
		w := types.Window{
			Index:         i,
			TrainingStart: start.AddDate(0, 6*i, 0),
			TrainingEnd:   start.AddDate(3, 6*i, -1),
			TestingStart:  start.AddDate(3, 6*i, 0),
			TestingEnd:    start.AddDate(4, 6*i, -1),
		}

		windows[i] = types.WindowResult{
			Window: w,
			Testing: types.SimulationResult{
				Range:            w.Testing(),
				AnnualizedReturn: types.Number(5 * float64(i+1)),
				SharpeRatio:      1,
				MaxDrawdownPct:   8,
				SortinoRatio:     1.5,
				WinRatePct:       55,
			},
			Optimization: &types.OptimizationSummary{
				Changes:       []types.ParamChange{{Scope: types.ScopeEntry, Name: "shortPeriod", From: 5, To: 10}},
				BaselineScore: 0.5,
				BestScore:     0.9,
			},
			Analysis: types.WindowAnalysis{
				OOSQuality:     types.OOSQuality{Value: 0.7, Passed: true},
				PSRProbability: 0.97,
				WindowScore:    0.6,
			},
		}
	}

	return types.WalkForwardReport{
		RunID:   "run-1",
		Windows: windows,
		Aggregate: types.AggregateReport{
			WindowCount:      3,
			EvaluatedWindows: 3,
			Grade:            types.GradeObserve,
		},
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel(viewerReport())

	assert.Equal(t, StateWindowList, m.state)
	assert.Equal(t, 0, m.selected)
	assert.Len(t, m.windowTable.Rows(), 3)
}

func TestWindowListView(t *testing.T) {
	tm := teatest.NewTestModel(t, NewModel(viewerReport()), teatest.WithInitialTermSize(140, 50))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Walk-forward summary")) &&
			bytes.Contains(bts, []byte("OBSERVE"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestWindowDetail(t *testing.T) {
	tm := teatest.NewTestModel(t, NewModel(viewerReport()), teatest.WithInitialTermSize(140, 50))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Walk-forward summary"))
	}, teatest.WithDuration(2*time.Second))

	// Move to the second window and open it
	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Window 1")) &&
			bytes.Contains(bts, []byte("entry.shortPeriod: 5 -> 10"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestStateTransitions(t *testing.T) {
	t.Run("Esc from detail goes back to the list", func(t *testing.T) {
		m := NewModel(viewerReport())

		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = next.(Model)
		assert.Equal(t, StateWindowDetail, m.state)

		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		m = next.(Model)
		assert.Equal(t, StateWindowList, m.state)
	})

	t.Run("Arrows page through windows in detail", func(t *testing.T) {
		m := NewModel(viewerReport())
		m.state = StateWindowDetail

		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
		m = next.(Model)
		assert.Equal(t, 1, m.selected)

		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
		m = next.(Model)
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
		m = next.(Model)
		assert.Equal(t, 0, m.selected)
	})

	t.Run("Enter on an empty report stays on the list", func(t *testing.T) {
		m := NewModel(types.WalkForwardReport{})

		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = next.(Model)
		assert.Equal(t, StateWindowList, m.state)
		assert.Contains(t, m.View(), "No windows were evaluated.")
	})

	t.Run("q quits", func(t *testing.T) {
		m := NewModel(viewerReport())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		assert.NotNil(t, cmd)
	})
}
