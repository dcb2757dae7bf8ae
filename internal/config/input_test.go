package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/ukpayroll/internal/calculation"
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdataDir = "../../test/testdata"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTaxYearConfig(t *testing.T) {
	parser := NewInputParser()

	cfg, err := parser.LoadTaxYearConfig(filepath.Join(testdataDir, "tax_year_2024_25.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "2024-25", cfg.TaxYear)
	assert.True(t, cfg.PersonalAllowance.Equal(decimal.NewFromInt(12570)))
	require.Len(t, cfg.IncomeTax.Scotland.Bands, 6)
	assert.Equal(t, 1, cfg.IncomeTax.Scotland.BasicRateBand)
	assert.True(t, cfg.IncomeTax.England.Bands[0].Rate.Equal(decimal.RequireFromString("0.2")))
	assert.Equal(t, domain.EmployerReliefFreeport, cfg.NationalInsurance.Categories["F"].EmployerRelief)
	assert.Len(t, cfg.NationalInsurance.Categories, 13)
	assert.True(t, cfg.StudentLoans.Plan2Threshold.Equal(decimal.NewFromInt(27295)))
}

// The checked-in file and the built-in fixture describe the same tax year
func TestLoadTaxYearConfig_MatchesDefault(t *testing.T) {
	parser := NewInputParser()
	loaded, err := parser.LoadTaxYearConfig(filepath.Join(testdataDir, "tax_year_2024_25.yaml"))
	require.NoError(t, err)

	engine := calculation.NewPayrollEngine()
	input := domain.PayrollCalculationInput{
		Employee: domain.Employee{
			ID: "EMP001", NationalInsuranceNumber: "AB123456C", TaxCode: "S1257L", NICategory: "F",
			AutoEnrolmentStatus: domain.AutoEnrolmentEnrolled,
		},
		GrossPay:     decimal.NewFromInt(4500),
		PeriodType:   domain.PeriodMonthly,
		PeriodNumber: 1,
	}

	withFile := input
	withFile.TaxYearConfig = loaded
	withDefault := input
	withDefault.TaxYearConfig = calculation.DefaultTaxYearConfig()

	a := engine.CalculatePayroll(withFile)
	b := engine.CalculatePayroll(withDefault)
	assert.True(t, a.NetPay.Equal(b.NetPay), "%s != %s", a.NetPay, b.NetPay)
	assert.Equal(t, a.CalculationLog, b.CalculationLog)
}

func TestLoadTaxYearConfig_Errors(t *testing.T) {
	parser := NewInputParser()
	dir := t.TempDir()

	_, err := parser.LoadTaxYearConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read file")

	bad := writeFile(t, dir, "bad.yaml", "tax_year: [unclosed")
	_, err = parser.LoadTaxYearConfig(bad)
	assert.ErrorContains(t, err, "failed to parse")

	empty := writeFile(t, dir, "empty.yaml", "tax_year: 2030-31\n")
	_, err = parser.LoadTaxYearConfig(empty)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSaveTaxYearConfig_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	path := filepath.Join(t.TempDir(), "export.yaml")

	original := calculation.DefaultTaxYearConfig()
	require.NoError(t, parser.SaveTaxYearConfig(path, original))

	loaded, err := parser.LoadTaxYearConfig(path)
	require.NoError(t, err)
	assert.Equal(t, original.TaxYear, loaded.TaxYear)
	assert.True(t, original.EffectiveFrom.Equal(loaded.EffectiveFrom))
	assert.True(t, original.NationalInsurance.UpperEarningsLimit.Equal(loaded.NationalInsurance.UpperEarningsLimit))
	assert.True(t, original.Pension.AutoEnrolmentLowerLimitAnnual.Equal(loaded.Pension.AutoEnrolmentLowerLimitAnnual))
	assert.Len(t, loaded.IncomeTax.Scotland.Bands, len(original.IncomeTax.Scotland.Bands))
}

func TestLoadCalculationInput(t *testing.T) {
	parser := NewInputParser()

	input, err := parser.LoadCalculationInput(filepath.Join(testdataDir, "employee_monthly.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "EMP001", input.Employee.ID)
	assert.Equal(t, domain.StudentLoanPlan2, input.Employee.StudentLoanPlan)
	assert.Equal(t, domain.PeriodMonthly, input.PeriodType)
	assert.True(t, input.GrossPay.Equal(decimal.NewFromInt(3000)))
	require.NotNil(t, input.TaxYearConfig, "tax_year_config_file should be resolved next to the input")
	assert.Equal(t, "2024-25", input.TaxYearConfig.TaxYear)

	engine := calculation.NewPayrollEngine()
	require.True(t, engine.ValidateInput(*input).Valid)
	result := engine.CalculatePayroll(*input)
	assert.True(t, result.StudentLoan.TotalDeduction.Equal(decimal.RequireFromString("65.29")))
	assert.True(t, result.NetPay.Equal(decimal.RequireFromString("2388.15")))
}

func TestLoadCalculationInput_PeriodTypeSpellings(t *testing.T) {
	parser := NewInputParser()
	dir := t.TempDir()

	tests := []struct {
		spelling string
		expected domain.PeriodType
	}{
		{"Monthly", domain.PeriodMonthly},
		{"four-weekly", domain.PeriodFourWeekly},
		{"fortnight", domain.PeriodFortnightly},
	}
	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			path := writeFile(t, dir, "input.yaml", "employee:\n  id: E1\ngross_pay: 100\nperiod_number: 1\nperiod_type: "+tt.spelling+"\n")
			input, err := parser.LoadCalculationInput(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, input.PeriodType)
			assert.Nil(t, input.TaxYearConfig)
		})
	}

	path := writeFile(t, dir, "annual.yaml", "employee:\n  id: E1\nperiod_type: annual\n")
	_, err := parser.LoadCalculationInput(path)
	assert.ErrorContains(t, err, "unsupported period type")
}

func TestLoadCalculationInput_JSON(t *testing.T) {
	parser := NewInputParser()
	path := writeFile(t, t.TempDir(), "input.json", `{
		"employee": {"id": "EMP010", "tax_code": "K500", "national_insurance_number": "AB123456C"},
		"gross_pay": "3000.00",
		"period_type": "monthly",
		"period_number": 1
	}`)

	input, err := parser.LoadCalculationInput(path)
	require.NoError(t, err)
	assert.Equal(t, "K500", input.Employee.TaxCode)
	assert.True(t, input.GrossPay.Equal(decimal.NewFromInt(3000)))
}

func TestLoadPayRun(t *testing.T) {
	parser := NewInputParser()

	req, err := parser.LoadPayRun(filepath.Join(testdataDir, "payrun_monthly.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.PeriodMonthly, req.PeriodType)
	assert.Equal(t, 1, req.PeriodNumber)
	require.Len(t, req.Items, 4)
	assert.Equal(t, "EMP003", req.Items[2].Employee.ID)
	assert.Equal(t, "S1257L", req.Items[2].Employee.TaxCode)
	assert.True(t, req.Items[1].Employee.HasPostgraduateLoan)
	assert.Nil(t, req.TaxYearConfig)
}

func TestLoadPayRun_Errors(t *testing.T) {
	parser := NewInputParser()
	dir := t.TempDir()

	noEmployees := writeFile(t, dir, "empty.yaml", "period_type: monthly\nperiod_number: 1\nemployees: []\n")
	_, err := parser.LoadPayRun(noEmployees)
	assert.ErrorContains(t, err, "no employees")

	badPeriod := writeFile(t, dir, "bad.yaml", "period_type: yearly\nperiod_number: 1\n")
	_, err = parser.LoadPayRun(badPeriod)
	assert.ErrorContains(t, err, "unsupported period type")

	missingConfig := writeFile(t, dir, "ref.yaml", "tax_year_config_file: nope.yaml\nperiod_type: monthly\nperiod_number: 1\nemployees:\n  - employee: {id: E1}\n    gross_pay: 1\n")
	_, err = parser.LoadPayRun(missingConfig)
	assert.ErrorContains(t, err, "nope.yaml")
}
