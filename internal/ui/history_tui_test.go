package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"intbench/internal/history"

	tea "github.com/charmbracelet/bubbletea"
)

type MockRunSource struct {
	ListRunsFunc func(limit int) ([]history.Run, error)
	GetRunFunc   func(id int64) (*history.Run, error)
}

func (m *MockRunSource) ListRuns(limit int) ([]history.Run, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(limit)
	}
	return nil, nil
}

func (m *MockRunSource) GetRun(id int64) (*history.Run, error) {
	if m.GetRunFunc != nil {
		return m.GetRunFunc(id)
	}
	return nil, nil
}

func ratioPtr(v float64) *float64 { return &v }

func sampleRuns() []history.Run {
	return []history.Run{
		{
			ID:           2,
			CreatedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Binary:       "build/benchmarks/integer_benchmark",
			TotalScore:   1800,
			AverageScore: 600,
		},
		{
			ID:           1,
			CreatedAt:    time.Date(2026, 3, 13, 9, 30, 0, 0, time.UTC),
			Binary:       "build/benchmarks/integer_benchmark",
			TotalScore:   1200,
			AverageScore: 400,
		},
	}
}

func TestHistoryModel_Update(t *testing.T) {
	src := &MockRunSource{
		ListRunsFunc: func(limit int) ([]history.Run, error) {
			return sampleRuns(), nil
		},
	}
	m := newHistoryModel(src)

	cmd := m.Init()
	if cmd == nil {
		t.Error("Init returned nil cmd")
	}

	updatedModel, _ := m.Update(runsMsg(sampleRuns()))
	m = updatedModel.(*historyModel)

	if len(m.runs) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(m.runs))
	}
	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "2" {
		t.Errorf("Expected newest run first, got ID %s", rows[0][0])
	}
	if rows[0][2] != "1800" {
		t.Errorf("Expected total score 1800, got %s", rows[0][2])
	}

	view := m.View()
	if view == "" {
		t.Error("View returned empty string")
	}
	if !strings.Contains(view, "Benchmark Run History") {
		t.Error("View missing title")
	}

	resizeMsg := tea.WindowSizeMsg{Width: 100, Height: 40}
	updatedModel, _ = m.Update(resizeMsg)
	m = updatedModel.(*historyModel)
	if m.table.Height() != 35 {
		t.Errorf("Expected table height 35 after resize, got %d", m.table.Height())
	}
}

func TestHistoryModel_DetailFlow(t *testing.T) {
	detail := &history.Run{
		ID:           2,
		CreatedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		TotalScore:   1800,
		AverageScore: 600,
		Results: []history.Result{
			{Digits: 1000, Measured: 0.00026, Ratio: ratioPtr(2.0), Score: 400},
			{Digits: 100000, Measured: 0.5, Score: 200},
		},
	}
	src := &MockRunSource{
		GetRunFunc: func(id int64) (*history.Run, error) {
			if id != 2 {
				t.Errorf("Expected GetRun(2), got GetRun(%d)", id)
			}
			return detail, nil
		},
	}
	m := newHistoryModel(src)

	updatedModel, _ := m.Update(runsMsg(sampleRuns()))
	m = updatedModel.(*historyModel)

	// Cursor starts on the first (newest) run
	updatedModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updatedModel.(*historyModel)
	if cmd == nil {
		t.Fatal("Expected enter to return a fetch command")
	}

	msg := cmd()
	dm, ok := msg.(detailMsg)
	if !ok {
		t.Fatalf("Expected detailMsg, got %T", msg)
	}

	updatedModel, _ = m.Update(dm)
	m = updatedModel.(*historyModel)
	if m.detail == nil {
		t.Fatal("Detail not set on model")
	}

	view := m.View()
	if !strings.Contains(view, "Run #2") {
		t.Error("Detail view missing run header")
	}
	if !strings.Contains(view, "1000 digits") {
		t.Error("Detail view missing per-size results")
	}
	if !strings.Contains(view, "n/a") {
		t.Error("Detail view should show n/a for missing ratio")
	}

	updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updatedModel.(*historyModel)
	if m.detail != nil {
		t.Error("Esc should clear the detail view")
	}
}

func TestHistoryModel_EnterWithoutRuns(t *testing.T) {
	m := newHistoryModel(&MockRunSource{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Enter with no runs should not return a command")
	}
}

func TestHistoryModel_Error(t *testing.T) {
	m := newHistoryModel(&MockRunSource{})

	err := errors.New("fetch error")
	updatedModel, _ := m.Update(errMsg{err})
	m = updatedModel.(*historyModel)

	if m.err != err {
		t.Error("Model error state not updated")
	}
	if view := m.View(); !strings.Contains(view, "fetch error") {
		t.Errorf("Expected error view, got %q", view)
	}
}

func TestHistoryModel_Quit(t *testing.T) {
	m := newHistoryModel(&MockRunSource{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
}

func TestFetchRuns(t *testing.T) {
	src := &MockRunSource{
		ListRunsFunc: func(limit int) ([]history.Run, error) {
			if limit != historyListLimit {
				t.Errorf("Expected limit %d, got %d", historyListLimit, limit)
			}
			return sampleRuns(), nil
		},
	}

	msg := fetchRuns(src)()
	runs, ok := msg.(runsMsg)
	if !ok {
		t.Fatalf("Expected runsMsg, got %T", msg)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(runs))
	}

	srcErr := &MockRunSource{
		ListRunsFunc: func(limit int) ([]history.Run, error) {
			return nil, errors.New("db locked")
		},
	}
	msgErr := fetchRuns(srcErr)()
	if _, ok := msgErr.(errMsg); !ok {
		t.Errorf("Expected errMsg, got %T", msgErr)
	}
}

func TestFetchDetail_NotFound(t *testing.T) {
	src := &MockRunSource{
		GetRunFunc: func(id int64) (*history.Run, error) {
			return nil, nil
		},
	}

	msg := fetchDetail(src, 42)()
	em, ok := msg.(errMsg)
	if !ok {
		t.Fatalf("Expected errMsg, got %T", msg)
	}
	if !strings.Contains(em.err.Error(), "42") {
		t.Errorf("Expected error to name the run, got %v", em.err)
	}
}

func TestStartHistoryTUI_Mock(t *testing.T) {
	orig := startHistoryTUI
	defer func() { startHistoryTUI = orig }()

	called := false
	SetStartHistoryTUIForTest(func(src RunSource) error {
		called = true
		return nil
	})

	if err := StartHistoryTUI(&MockRunSource{}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if !called {
		t.Error("Mock TUI starter not called")
	}
}
