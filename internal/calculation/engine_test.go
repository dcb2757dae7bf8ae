package calculation

import (
	"sync"
	"testing"
	"time"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monthlyInput is the baseline 1257L / category A month 1 employee on £3,000
func monthlyInput() domain.PayrollCalculationInput {
	return domain.PayrollCalculationInput{
		Employee: domain.Employee{
			ID:                      "EMP001",
			FirstName:               "Alice",
			LastName:                "Smith",
			NationalInsuranceNumber: "AB123456C",
			TaxCode:                 "1257L",
			NICategory:              "A",
			StudentLoanPlan:         domain.StudentLoanNone,
			AutoEnrolmentStatus:     domain.AutoEnrolmentOptedOut,
		},
		GrossPay:        decimal.NewFromInt(3000),
		PeriodStartDate: time.Date(2024, time.April, 6, 0, 0, 0, 0, time.UTC),
		PeriodEndDate:   time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC),
		PeriodType:      domain.PeriodMonthly,
		PeriodNumber:    1,
		TaxYearConfig:   DefaultTaxYearConfig(),
		YTDData:         CreateDefaultYTD(),
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestNewPayrollEngine(t *testing.T) {
	engine := NewPayrollEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.TaxCalc, "Should initialize tax calculator")
	assert.NotNil(t, engine.NICalc, "Should initialize NI calculator")
	assert.NotNil(t, engine.StudentLoanCalc, "Should initialize student loan calculator")
	assert.NotNil(t, engine.PensionCalc, "Should initialize pension calculator")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
}

func TestPayrollEngine_SetLogger(t *testing.T) {
	engine := NewPayrollEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)

	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")
	assert.Equal(t, customLogger, engine.TaxCalc.(*TaxCalculator).Logger, "Should pass logger to calculators")

	engine.CalculatePayroll(monthlyInput())
	assert.NotEmpty(t, customLogger.Messages(), "Should log during calculation")

	engine.SetLogger(nil)

	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestCalculatePayroll_MonthlyBasicRate(t *testing.T) {
	engine := NewPayrollEngine()
	result := engine.CalculatePayroll(monthlyInput())

	require.NotNil(t, result)
	assert.True(t, result.GrossPay.Equal(decimal.NewFromInt(3000)))
	assert.True(t, result.Tax.FreePay.Equal(money.Pounds("1047.50")), "monthly free pay, got %s", result.Tax.FreePay)
	assert.True(t, result.NationalInsurance.PrimaryThreshold.Equal(decimal.NewFromInt(1048)))
	assert.True(t, result.Tax.TaxDueThisPeriod.Equal(money.Pounds("390.40")), "tax, got %s", result.Tax.TaxDueThisPeriod)
	assert.True(t, result.NationalInsurance.EmployeeNIThisPeriod.Equal(money.Pounds("156.16")), "NI, got %s", result.NationalInsurance.EmployeeNIThisPeriod)
	assert.True(t, result.TotalDeductions.Equal(money.Pounds("546.56")))
	assert.True(t, result.NetPay.Equal(money.Pounds("2453.44")), "net, got %s", result.NetPay)
	assert.True(t, result.NetPay.LessThan(decimal.NewFromInt(3000)))
	assert.True(t, result.NetPay.GreaterThan(decimal.NewFromInt(2000)))
	assert.False(t, result.StudentLoan.HasStudentLoan)
	assert.False(t, result.Pension.IsEnrolled)
}

func TestCalculatePayroll_StudentLoanPlan2(t *testing.T) {
	input := monthlyInput()
	input.Employee.StudentLoanPlan = domain.StudentLoanPlan2

	result := NewPayrollEngine().CalculatePayroll(input)

	require.Len(t, result.StudentLoan.Plans, 1)
	plan := result.StudentLoan.Plans[0]
	assert.Equal(t, domain.StudentLoanPlan2, plan.Plan)
	assert.True(t, plan.Threshold.Equal(money.Pounds("2274.58")), "threshold, got %s", plan.Threshold)
	assert.True(t, plan.Deduction.Equal(money.Pounds("65.29")), "deduction, got %s", plan.Deduction)
	assert.True(t, result.NetPay.Equal(money.Pounds("2388.15")), "net, got %s", result.NetPay)
	assert.True(t, result.UpdatedYTD.StudentLoanPlan2YTD.Equal(money.Pounds("65.29")))
}

func TestCalculatePayroll_SecondaryThresholdBoundary(t *testing.T) {
	input := monthlyInput()
	input.GrossPay = decimal.NewFromInt(758)

	result := NewPayrollEngine().CalculatePayroll(input)

	assert.True(t, result.NationalInsurance.SecondaryThreshold.Equal(decimal.NewFromInt(758)))
	assert.True(t, result.NationalInsurance.EmployerNIThisPeriod.IsZero(), "employer NI at ST, got %s", result.NationalInsurance.EmployerNIThisPeriod)
	assert.True(t, result.NationalInsurance.EmployeeNIThisPeriod.IsZero())
}

func TestCalculatePayroll_PlanOneAndPostgraduate(t *testing.T) {
	input := monthlyInput()
	input.Employee.StudentLoanPlan = domain.StudentLoanPlan1
	input.Employee.HasPostgraduateLoan = true

	result := NewPayrollEngine().CalculatePayroll(input)

	require.Len(t, result.StudentLoan.Plans, 2)
	assert.Equal(t, domain.StudentLoanPlan1, result.StudentLoan.Plans[0].Plan)
	assert.Equal(t, domain.StudentLoanPostgraduate, result.StudentLoan.Plans[1].Plan)
	assert.True(t, result.StudentLoan.Plans[0].Deduction.Equal(money.Pounds("82.58")), "plan1, got %s", result.StudentLoan.Plans[0].Deduction)
	assert.True(t, result.StudentLoan.Plans[1].Deduction.Equal(money.Pounds("75.00")), "postgraduate, got %s", result.StudentLoan.Plans[1].Deduction)
	assert.True(t, result.StudentLoan.TotalDeduction.Equal(money.Pounds("157.58")))
	assert.True(t, result.UpdatedYTD.StudentLoanPlan1YTD.Equal(money.Pounds("82.58")))
	assert.True(t, result.UpdatedYTD.PostgraduateLoanYTD.Equal(money.Pounds("75.00")))
}

func TestCalculatePayroll_PensionEnrolled(t *testing.T) {
	input := monthlyInput()
	input.Employee.AutoEnrolmentStatus = domain.AutoEnrolmentEnrolled

	result := NewPayrollEngine().CalculatePayroll(input)

	assert.True(t, result.Pension.IsEnrolled)
	assert.True(t, result.Pension.EmployeeContribution.Equal(money.Pounds("124.00")))
	assert.True(t, result.NetPay.Equal(money.Pounds("2329.44")), "net, got %s", result.NetPay)
	assert.True(t, result.UpdatedYTD.EmployerPensionYTD.Equal(money.Pounds("74.40")))
}

func TestCalculatePayroll_GrossPayAssembly(t *testing.T) {
	input := monthlyInput()
	input.GrossPay = decimal.NewFromInt(2000)
	input.Bonuses = decimal.NewFromInt(500)
	input.Commission = decimal.NewFromInt(250)
	input.TroncPayment = money.Pounds("100.50")
	input.HolidayPay = decimal.NewFromInt(100)
	input.OtherPayments = money.Pounds("49.50")

	result := NewPayrollEngine().CalculatePayroll(input)

	assert.True(t, result.GrossPay.Equal(decimal.NewFromInt(3000)), "gross, got %s", result.GrossPay)
	assert.True(t, result.NetPay.Equal(money.Pounds("2453.44")))
}

func TestCalculatePayroll_SubPennyGrossRounded(t *testing.T) {
	input := monthlyInput()
	input.GrossPay = money.Pounds("3000.004")
	input.Bonuses = money.Pounds("0.001")

	result := NewPayrollEngine().CalculatePayroll(input)

	assert.True(t, result.GrossPay.Equal(money.Pounds("3000.01")), "gross, got %s", result.GrossPay)
	assert.True(t, result.NetPay.Equal(result.GrossPay.Sub(result.TotalDeductions)),
		"net %s, gross %s, deductions %s", result.NetPay, result.GrossPay, result.TotalDeductions)
	assert.True(t, result.UpdatedYTD.GrossPayYTD.Equal(money.Pounds("3000.01")))
}

func TestCalculatePayroll_CalculationLog(t *testing.T) {
	result := NewPayrollEngine().CalculatePayroll(monthlyInput())

	require.Len(t, result.CalculationLog, 7)
	assert.Contains(t, result.CalculationLog[0], "Alice Smith")
	assert.Contains(t, result.CalculationLog[0], "monthly 1")
	assert.Equal(t, result.Tax.Calculation, result.CalculationLog[1])
	assert.Equal(t, result.NationalInsurance.Calculation, result.CalculationLog[2])
	assert.Equal(t, result.StudentLoan.Calculation, result.CalculationLog[3])
	assert.Equal(t, result.Pension.Calculation, result.CalculationLog[4])
	assert.Equal(t, "Total deductions: £546.56", result.CalculationLog[5])
	assert.Equal(t, "Net pay: £2,453.44", result.CalculationLog[6])
}

func TestCalculatePayroll_Idempotent(t *testing.T) {
	engine := NewPayrollEngine()
	input := monthlyInput()
	input.Employee.StudentLoanPlan = domain.StudentLoanPlan2
	input.Employee.AutoEnrolmentStatus = domain.AutoEnrolmentEnrolled

	first := engine.CalculatePayroll(input)
	second := engine.CalculatePayroll(input)

	assert.Equal(t, first, second)
}

func TestCalculatePayroll_DoesNotMutateInput(t *testing.T) {
	input := monthlyInput()
	input.YTDData.GrossPayYTD = decimal.NewFromInt(3000)
	input.YTDData.TaxablePayYTD = decimal.NewFromInt(3000)
	input.YTDData.TaxPaidYTD = money.Pounds("390.40")
	input.PeriodNumber = 2
	before := input.YTDData

	NewPayrollEngine().CalculatePayroll(input)

	assert.Equal(t, before, input.YTDData)
}

func TestCalculatePayroll_RoundTripFromDefaultYTD(t *testing.T) {
	input := monthlyInput()
	input.Employee.StudentLoanPlan = domain.StudentLoanPlan1
	input.Employee.HasPostgraduateLoan = true
	input.Employee.AutoEnrolmentStatus = domain.AutoEnrolmentEnrolled

	result := NewPayrollEngine().CalculatePayroll(input)
	ytd := result.UpdatedYTD

	assert.True(t, ytd.GrossPayYTD.Equal(result.GrossPay))
	assert.True(t, ytd.TaxablePayYTD.Equal(result.GrossPay))
	assert.True(t, ytd.NIablePayYTD.Equal(result.GrossPay))
	assert.True(t, ytd.PensionablePayYTD.Equal(result.GrossPay))
	assert.True(t, ytd.TaxPaidYTD.Equal(result.Tax.TaxDueThisPeriod))
	assert.True(t, ytd.EmployeeNIYTD.Equal(result.NationalInsurance.EmployeeNIThisPeriod))
	assert.True(t, ytd.EmployerNIYTD.Equal(result.NationalInsurance.EmployerNIThisPeriod))
	assert.True(t, ytd.EmployeePensionYTD.Equal(result.Pension.EmployeeContribution))
	assert.True(t, ytd.EmployerPensionYTD.Equal(result.Pension.EmployerContribution))
	assert.True(t, ytd.StudentLoanPlan1YTD.Equal(result.StudentLoan.Plans[0].Deduction))
	assert.True(t, ytd.PostgraduateLoanYTD.Equal(result.StudentLoan.Plans[1].Deduction))
	assert.True(t, ytd.StudentLoanPlan2YTD.IsZero())
}

func TestCalculatePayroll_YTDMonotonic(t *testing.T) {
	engine := NewPayrollEngine()
	grossByMonth := []string{"3000", "8000", "0", "1200", "500", "3000"}

	input := monthlyInput()
	input.Employee.StudentLoanPlan = domain.StudentLoanPlan2
	input.Employee.AutoEnrolmentStatus = domain.AutoEnrolmentEnrolled

	ytd := CreateDefaultYTD()
	for i, gross := range grossByMonth {
		input.PeriodNumber = i + 1
		input.GrossPay = money.Pounds(gross)
		input.YTDData = ytd

		result := engine.CalculatePayroll(input)
		before := ytd.Fields()
		after := result.UpdatedYTD.Fields()
		for j := range before {
			assert.True(t, after[j].Value.GreaterThanOrEqual(before[j].Value),
				"month %d: %s decreased from %s to %s", i+1, before[j].Name, before[j].Value, after[j].Value)
		}
		assert.True(t, result.NetPay.Equal(money.RoundPenny(result.GrossPay.Sub(result.TotalDeductions))))
		ytd = result.UpdatedYTD
	}
}

func TestCalculatePayroll_NilTaxYearConfigUsesDefault(t *testing.T) {
	input := monthlyInput()
	input.TaxYearConfig = nil

	result := NewPayrollEngine().CalculatePayroll(input)

	assert.True(t, result.NetPay.Equal(money.Pounds("2453.44")))
}

func TestCalculatePayroll_Concurrent(t *testing.T) {
	engine := NewPayrollEngine()
	want := engine.CalculatePayroll(monthlyInput())

	var wg sync.WaitGroup
	results := make([]*domain.PayrollCalculationResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.CalculatePayroll(monthlyInput())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestCalculatePayroll_WithMockCalculators(t *testing.T) {
	engine := NewPayrollEngine()
	engine.TaxCalc = PeriodCalculatorFunc[domain.TaxCalculationResult](func(_ domain.Employee, _ decimal.Decimal, _ domain.Period, _ *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) domain.TaxCalculationResult {
		return domain.TaxCalculationResult{TaxDueThisPeriod: decimal.NewFromInt(100), TaxPaidYTD: ytd.TaxPaidYTD.Add(decimal.NewFromInt(100)), Calculation: "tax stub"}
	})
	engine.NICalc = PeriodCalculatorFunc[domain.NICalculationResult](func(_ domain.Employee, _ decimal.Decimal, _ domain.Period, _ *domain.TaxYearConfiguration, _ domain.EmployeeYTDData) domain.NICalculationResult {
		return domain.NICalculationResult{EmployeeNIThisPeriod: decimal.NewFromInt(50), Calculation: "ni stub"}
	})

	result := engine.CalculatePayroll(monthlyInput())

	assert.True(t, result.TotalDeductions.Equal(decimal.NewFromInt(150)))
	assert.True(t, result.NetPay.Equal(decimal.NewFromInt(2850)))
	assert.Equal(t, "tax stub", result.CalculationLog[1])
	assert.Equal(t, "ni stub", result.CalculationLog[2])
	assert.True(t, result.UpdatedYTD.TaxPaidYTD.Equal(decimal.NewFromInt(100)))
}

func TestCreateDefaultYTD(t *testing.T) {
	ytd := NewPayrollEngine().CreateDefaultYTD()
	for _, f := range ytd.Fields() {
		assert.True(t, f.Value.IsZero(), "%s should be zero", f.Name)
	}
}

func TestGetDefaultTaxYearConfig(t *testing.T) {
	cfg := NewPayrollEngine().GetDefaultTaxYearConfig()

	assert.Equal(t, "2024-25", cfg.TaxYear)
	assert.Equal(t, time.Date(2024, time.April, 6, 0, 0, 0, 0, time.UTC), cfg.EffectiveFrom)
	assert.Equal(t, time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC), cfg.EffectiveTo)
	assert.True(t, cfg.PersonalAllowance.Equal(decimal.NewFromInt(12570)))
	assert.Len(t, cfg.IncomeTax.England.Bands, 3)
	assert.Len(t, cfg.IncomeTax.Scotland.Bands, 6)
	assert.Len(t, cfg.NationalInsurance.Categories, len(NICategories))
	assert.True(t, cfg.StudentLoans.Plan2Threshold.Equal(decimal.NewFromInt(27295)))
	assert.True(t, cfg.Pension.DefaultEmployeePercentage.Add(cfg.Pension.DefaultEmployerPercentage).Equal(cfg.Pension.MinimumTotalPercentage))

	// each call returns an independent copy
	cfg.PersonalAllowance = decimal.Zero
	assert.True(t, DefaultTaxYearConfig().PersonalAllowance.Equal(decimal.NewFromInt(12570)))
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	mu       sync.Mutex
	messages []string
}

func (tl *TestLogger) record(msg string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.messages = append(tl.messages, msg)
}

func (tl *TestLogger) Messages() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]string(nil), tl.messages...)
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) { tl.record("DEBUG: " + format) }
func (tl *TestLogger) Infof(format string, args ...interface{})  { tl.record("INFO: " + format) }
func (tl *TestLogger) Warnf(format string, args ...interface{})  { tl.record("WARN: " + format) }
func (tl *TestLogger) Errorf(format string, args ...interface{}) { tl.record("ERROR: " + format) }
