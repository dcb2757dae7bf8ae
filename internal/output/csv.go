package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/ukpayroll/internal/payrun"
	"github.com/shopspring/decimal"
)

// CSVSummarizer writes one row per employee with the headline figures
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *payrun.Result) ([]byte, error) {
	header := []string{"EmployeeID", "Name", "Status", "GrossPay", "TaxDue", "EmployeeNI", "StudentLoan", "EmployeePension", "TotalDeductions", "NetPay", "EmployerNI", "EmployerPension"}
	return writeCSV(header, result, func(it payrun.ItemResult) []string {
		row := []string{it.EmployeeID, it.Name, string(it.Status)}
		r := it.Result
		if r == nil {
			return append(row, "", "", "", "", "", "", "", "", "")
		}
		return append(row,
			fixed(r.GrossPay),
			fixed(r.Tax.TaxDueThisPeriod),
			fixed(r.NationalInsurance.EmployeeNIThisPeriod),
			fixed(r.StudentLoan.TotalDeduction),
			fixed(r.Pension.EmployeeContribution),
			fixed(r.TotalDeductions),
			fixed(r.NetPay),
			fixed(r.NationalInsurance.EmployerNIThisPeriod),
			fixed(r.Pension.EmployerContribution),
		)
	})
}

// DetailedCSVFormatter adds the tax basis, thresholds and updated YTD ledger to each row
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(result *payrun.Result) ([]byte, error) {
	header := []string{
		"EmployeeID", "Status", "TaxCode", "Region", "Basis", "FreePay", "TaxablePay", "TaxDue", "RegulatoryLimit",
		"NICategory", "NIablePay", "EmployeeNI", "EmployerNI",
		"StudentLoan", "PensionablePay", "EmployeePension", "EmployerPension",
		"TotalDeductions", "NetPay",
		"GrossPayYTD", "TaxPaidYTD", "EmployeeNIYTD", "EmployerNIYTD", "EmployeePensionYTD",
	}
	return writeCSV(header, result, func(it payrun.ItemResult) []string {
		row := []string{it.EmployeeID, string(it.Status)}
		r := it.Result
		if r == nil {
			return append(row, make([]string, len(header)-2)...)
		}
		limit := "false"
		if r.Tax.RegulatoryLimit {
			limit = "true"
		}
		y := r.UpdatedYTD
		return append(row,
			r.Tax.TaxCode, r.Tax.Region, r.Tax.Basis,
			fixed(r.Tax.FreePay), fixed(r.Tax.TaxablePay), fixed(r.Tax.TaxDueThisPeriod), limit,
			r.NationalInsurance.Category, fixed(r.NationalInsurance.NIablePay),
			fixed(r.NationalInsurance.EmployeeNIThisPeriod), fixed(r.NationalInsurance.EmployerNIThisPeriod),
			fixed(r.StudentLoan.TotalDeduction), fixed(r.Pension.PensionablePay),
			fixed(r.Pension.EmployeeContribution), fixed(r.Pension.EmployerContribution),
			fixed(r.TotalDeductions), fixed(r.NetPay),
			fixed(y.GrossPayYTD), fixed(y.TaxPaidYTD), fixed(y.EmployeeNIYTD), fixed(y.EmployerNIYTD), fixed(y.EmployeePensionYTD),
		)
	})
}

func writeCSV(header []string, result *payrun.Result, row func(payrun.ItemResult) []string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if result != nil {
		for _, it := range result.Items {
			if err := w.Write(row(it)); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}
