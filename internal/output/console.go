package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB000"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
)

// ConsoleFormatter renders a run summary table. Unless Lite is set it also writes
// each employee's validation messages and calculation log.
type ConsoleFormatter struct {
	Lite bool
}

func (c ConsoleFormatter) Name() string {
	if c.Lite {
		return "console-lite"
	}
	return "console"
}

const rowFormat = "%-12s %-24s %12s %12s %12s %12s  %s"

func (c ConsoleFormatter) Format(result *payrun.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no pay run result to format")
	}
	var buf bytes.Buffer

	title := fmt.Sprintf("UK PAYROLL: %s period %d, tax year %s", result.PeriodType, result.PeriodNumber, result.TaxYear)
	fmt.Fprintln(&buf, titleStyle.Render(title))
	if result.RunID != "" {
		fmt.Fprintln(&buf, mutedStyle.Render("Run "+result.RunID))
	}
	fmt.Fprintln(&buf, strings.Repeat("=", 100))

	fmt.Fprintln(&buf, headerStyle.Render(fmt.Sprintf(rowFormat, "Employee", "Name", "Gross", "Tax", "NI", "Net", "Status")))
	for _, it := range result.Items {
		gross, tax, ni, net := "-", "-", "-", "-"
		if r := it.Result; r != nil {
			gross = money.Format(r.GrossPay)
			tax = money.Format(r.Tax.TaxDueThisPeriod)
			ni = money.Format(r.NationalInsurance.EmployeeNIThisPeriod)
			net = money.Format(r.NetPay)
		}
		fmt.Fprintf(&buf, rowFormat+"\n", it.EmployeeID, truncate(it.Name, 24), gross, tax, ni, net, statusLabel(it))
	}
	fmt.Fprintln(&buf, strings.Repeat("-", 100))

	t := result.Totals
	fmt.Fprintf(&buf, "%-37s %12s %12s %12s\n", "Totals", money.Format(t.GrossPay), "Deductions", money.Format(t.TotalDeductions))
	fmt.Fprintf(&buf, "%-37s %12s %12s %12s\n", "", "", "Net pay", money.Format(t.NetPay))
	fmt.Fprintf(&buf, "%-37s %12s %12s %12s\n", "", "", "Employer NI", money.Format(t.EmployerNI))
	fmt.Fprintf(&buf, "%-37s %12s %12s %12s\n", "", "", "Employer pen", money.Format(t.EmployerPension))
	fmt.Fprintf(&buf, "%d calculated, %d invalid, %d failed, %d skipped\n", result.Calculated, result.Invalid, result.Failed, result.Skipped)

	if c.Lite {
		return buf.Bytes(), nil
	}

	for _, it := range result.Items {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, sectionStyle.Render(fmt.Sprintf("%s (%s)", it.Name, it.EmployeeID)))
		for _, e := range it.Validation.Errors {
			fmt.Fprintln(&buf, errorStyle.Render("  error: "+e))
		}
		for _, w := range it.Validation.Warnings {
			fmt.Fprintln(&buf, warnStyle.Render("  warning: "+w))
		}
		if it.Error != "" && it.Status != payrun.StatusInvalid {
			fmt.Fprintln(&buf, errorStyle.Render("  "+it.Error))
		}
		if it.Result == nil {
			continue
		}
		for _, line := range it.Result.CalculationLog {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}
	return buf.Bytes(), nil
}

func statusLabel(it payrun.ItemResult) string {
	switch it.Status {
	case payrun.StatusCalculated:
		return okStyle.Render(string(it.Status))
	case payrun.StatusInvalid, payrun.StatusFailed:
		return errorStyle.Render(string(it.Status))
	}
	return mutedStyle.Render(string(it.Status))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
