package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/ukpayroll/internal/config"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
)

// Model represents the entire application state
type Model struct {
	currentScene Scene

	// Terminal dimensions
	width  int
	height int

	payRunPath string
	runner     *payrun.Runner
	result     *payrun.Result

	table  table.Model
	detail viewport.Model

	err error
}

// NewModel creates a model that loads and executes the pay run at payRunPath
// against an in-memory ledger
func NewModel(payRunPath string) Model {
	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	return Model{
		currentScene: SceneLoading,
		payRunPath:   payRunPath,
		runner:       payrun.NewRunner(nil),
		table:        t,
		detail:       viewport.New(80, 16),
		width:        80,
		height:       24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return runPayRunCmd(m.runner, m.payRunPath)
}

// runPayRunCmd loads the pay-run file and executes it
func runPayRunCmd(runner *payrun.Runner, path string) tea.Cmd {
	return func() tea.Msg {
		req, err := config.NewInputParser().LoadPayRun(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		res, err := runner.Run(context.Background(), *req)
		return RunCompleteMsg{Result: res, Err: err}
	}
}

func columns() []table.Column {
	return []table.Column{
		{Title: "Employee", Width: 10},
		{Title: "Name", Width: 22},
		{Title: "Gross", Width: 12},
		{Title: "Deductions", Width: 12},
		{Title: "Net", Width: 12},
		{Title: "Status", Width: 10},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorWhite).
		Background(ColorPrimary).
		Bold(false)
	return s
}

func rows(res *payrun.Result) []table.Row {
	if res == nil {
		return nil
	}
	out := make([]table.Row, 0, len(res.Items))
	for _, it := range res.Items {
		gross, deductions, net := "-", "-", "-"
		if r := it.Result; r != nil {
			gross = money.Format(r.GrossPay)
			deductions = money.Format(r.TotalDeductions)
			net = money.Format(r.NetPay)
		}
		out = append(out, table.Row{it.EmployeeID, it.Name, gross, deductions, net, string(it.Status)})
	}
	return out
}

// selected returns the item under the table cursor
func (m Model) selected() (payrun.ItemResult, bool) {
	if m.result == nil {
		return payrun.ItemResult{}, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.result.Items) {
		return payrun.ItemResult{}, false
	}
	return m.result.Items[i], true
}
