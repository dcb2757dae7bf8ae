package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case SceneLoading:
		content = SubtitleStyle.Render("Running pay run " + m.payRunPath + "...")
	case SceneResults:
		content = m.renderResults()
	case SceneDetail:
		content = m.renderDetail()
	default:
		content = "Unknown scene"
	}
	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.renderTitleBar(), content, m.renderStatusBar()))
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("UK Payroll")
	if m.result == nil {
		return title
	}
	sub := SubtitleStyle.Render(fmt.Sprintf("  %s period %d, tax year %s", m.result.PeriodType, m.result.PeriodNumber, m.result.TaxYear))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, sub)
}

func (m Model) renderResults() string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	if m.result == nil {
		return b.String()
	}
	b.WriteString(BorderStyle.Render(m.table.View()) + "\n")

	t := m.result.Totals
	columns := 4
	if m.width < 110 {
		columns = 2
	}
	b.WriteString(MetricGrid([]*MetricCard{
		NewMetricCard("Total gross", t.GrossPay),
		NewMetricCard("Total net", t.NetPay).WithDescription("after " + money.Format(t.TotalDeductions) + " deductions"),
		NewMetricCard("Employer NI", t.EmployerNI),
		NewMetricCard("Employer pension", t.EmployerPension),
	}, columns) + "\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d calculated, %d invalid, %d failed, %d skipped",
		m.result.Calculated, m.result.Invalid, m.result.Failed, m.result.Skipped)))
	return b.String()
}

func (m Model) renderDetail() string {
	return BorderStyle.Render(m.detail.View())
}

func (m Model) renderStatusBar() string {
	keys := []struct{ key, desc string }{
		{"↑/↓", "select"},
		{"enter", "details"},
		{"esc", "back"},
		{"q", "quit"},
	}
	if m.currentScene == SceneDetail {
		keys[0].desc = "scroll"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, StatusKeyStyle.Render(k.key)+" "+k.desc)
	}
	return StatusBarStyle.Render(strings.Join(parts, "  "))
}

// renderDetail lays out one employee's validation messages and audit log
func renderDetail(it payrun.ItemResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %s\n\n", it.Name, it.EmployeeID, it.Status)

	for _, e := range it.Validation.Errors {
		b.WriteString(ErrorStyle.Render("error: "+e) + "\n")
	}
	for _, w := range it.Validation.Warnings {
		b.WriteString(WarningStyle.Render("warning: "+w) + "\n")
	}
	if it.Error != "" && it.Status != payrun.StatusInvalid {
		b.WriteString(ErrorStyle.Render(it.Error) + "\n")
	}

	r := it.Result
	if r == nil {
		return b.String()
	}
	b.WriteString("\n")
	for _, line := range r.CalculationLog {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(NewMetricCard("Taxable pay YTD", r.UpdatedYTD.TaxablePayYTD).RenderCompact() + "\n")
	b.WriteString(NewMetricCard("Tax paid YTD", r.UpdatedYTD.TaxPaidYTD).RenderCompact() + "\n")
	b.WriteString(NewMetricCard("Employee NI YTD", r.UpdatedYTD.EmployeeNIYTD).RenderCompact() + "\n")
	b.WriteString(NewMetricCard("Employer NI YTD", r.UpdatedYTD.EmployerNIYTD).RenderCompact() + "\n")
	return b.String()
}
