package ui

import (
	"fmt"
	"os"
	"strings"

	"intbench/internal/history"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunSource is the subset of the history store the run browser needs.
// This is defined locally to avoid circular dependencies with the cmd package.
type RunSource interface {
	ListRuns(limit int) ([]history.Run, error)
	GetRun(id int64) (*history.Run, error)
}

// historyListLimit caps how many runs the browser loads at once.
const historyListLimit = 50

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var startHistoryTUI = func(src RunSource) error {
	model := newHistoryModel(src)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}

// StartHistoryTUI launches the interactive run browser.
func StartHistoryTUI(src RunSource) error {
	return startHistoryTUI(src)
}

// SetStartHistoryTUIForTest allows tests to replace the TUI starter function.
func SetStartHistoryTUIForTest(fn func(src RunSource) error) {
	startHistoryTUI = fn
}

type historyModel struct {
	table  table.Model
	src    RunSource
	runs   []history.Run
	detail *history.Run
	err    error
}

type runsMsg []history.Run
type detailMsg *history.Run
type errMsg struct{ err error }

func newHistoryModel(src RunSource) *historyModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "DATE", Width: 20},
		{Title: "TOTAL", Width: 8},
		{Title: "AVERAGE", Width: 9},
		{Title: "BINARY", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return &historyModel{
		table: t,
		src:   src,
	}
}

func (m *historyModel) Init() tea.Cmd {
	return fetchRuns(m.src)
}

func (m *historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.detail == nil && len(m.runs) > 0 {
				idx := m.table.Cursor()
				if idx >= 0 && idx < len(m.runs) {
					return m, fetchDetail(m.src, m.runs[idx].ID)
				}
			}
			return m, nil
		case "esc":
			m.detail = nil
			return m, nil
		}
	case runsMsg:
		m.runs = msg
		m.updateTable()
		return m, nil
	case detailMsg:
		m.detail = msg
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 5)
		return m, nil
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *historyModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'q' to quit.", m.err)
	}
	if m.detail != nil {
		return m.detailView()
	}

	title := titleStyle.Render(" Benchmark Run History ")
	help := helpStyle.Render("\n↑/↓: Navigate • enter: Details • q: Quit")
	return baseStyle.Render(title+"\n"+m.table.View()) + help
}

func (m *historyModel) detailView() string {
	run := m.detail
	var b strings.Builder

	b.WriteString(detailTitleStyle.Render(fmt.Sprintf("Run #%d  %s", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))))
	b.WriteString("\n")

	for _, res := range run.Results {
		line := fmt.Sprintf("%8d digits  %12.6fs", res.Digits, res.Measured)
		if res.Ratio != nil {
			line += fmt.Sprintf("  %7.2fx", *res.Ratio)
		} else {
			line += "      n/a"
		}
		line += fmt.Sprintf("  score %d", res.Score)
		b.WriteString(detailTextStyle.Render(line))
		b.WriteString("\n")
	}

	avgLabel := RenderAssessment(run.AverageScore, fmt.Sprintf("%.1f", run.AverageScore))
	b.WriteString("\n")
	b.WriteString(detailTextStyle.Render(fmt.Sprintf("Total: %d   Average: %s", run.TotalScore, avgLabel)))
	b.WriteString(helpStyle.Render("\n\nesc: Back • q: Quit"))
	return b.String()
}

func (m *historyModel) updateTable() {
	rows := make([]table.Row, len(m.runs))
	for i, run := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", run.ID),
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", run.TotalScore),
			fmt.Sprintf("%.1f", run.AverageScore),
			run.Binary,
		}
	}
	m.table.SetRows(rows)
}

func fetchRuns(src RunSource) tea.Cmd {
	return func() tea.Msg {
		runs, err := src.ListRuns(historyListLimit)
		if err != nil {
			return errMsg{err}
		}
		return runsMsg(runs)
	}
}

func fetchDetail(src RunSource, id int64) tea.Cmd {
	return func() tea.Msg {
		run, err := src.GetRun(id)
		if err != nil {
			return errMsg{err}
		}
		if run == nil {
			return errMsg{fmt.Errorf("run %d not found", id)}
		}
		return detailMsg(run)
	}
}
