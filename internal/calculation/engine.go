package calculation

import (
	"fmt"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/shopspring/decimal"
)

// PayrollEngine orchestrates the tax, NI, student loan and pension calculators.
// It holds no per-call state and is safe for concurrent use.
type PayrollEngine struct {
	TaxCalc         PeriodCalculator[domain.TaxCalculationResult]
	NICalc          PeriodCalculator[domain.NICalculationResult]
	StudentLoanCalc PeriodCalculator[domain.StudentLoanCalculationResult]
	PensionCalc     PeriodCalculator[domain.PensionCalculationResult]
	Logger          Logger
}

// NewPayrollEngine creates an engine wired with the standard UK calculators
func NewPayrollEngine() *PayrollEngine {
	return &PayrollEngine{
		TaxCalc:         NewTaxCalculator(),
		NICalc:          NewNICalculator(),
		StudentLoanCalc: NewStudentLoanCalculator(),
		PensionCalc:     NewPensionCalculator(),
		Logger:          NopLogger{},
	}
}

// SetLogger sets the engine logger and passes it to the built-in calculators.
// A nil logger restores the no-op logger.
func (pe *PayrollEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	pe.Logger = l
	if c, ok := pe.TaxCalc.(*TaxCalculator); ok {
		c.Logger = l
	}
	if c, ok := pe.NICalc.(*NICalculator); ok {
		c.Logger = l
	}
	if c, ok := pe.StudentLoanCalc.(*StudentLoanCalculator); ok {
		c.Logger = l
	}
	if c, ok := pe.PensionCalc.(*PensionCalculator); ok {
		c.Logger = l
	}
}

// ValidateInput runs the pre-calculation checks
func (pe *PayrollEngine) ValidateInput(input domain.PayrollCalculationInput) domain.ValidationResult {
	return ValidateInput(input)
}

// CreateDefaultYTD returns an all-zero year-to-date ledger
func (pe *PayrollEngine) CreateDefaultYTD() domain.EmployeeYTDData {
	return CreateDefaultYTD()
}

// GetDefaultTaxYearConfig returns the built-in 2024/25 configuration
func (pe *PayrollEngine) GetDefaultTaxYearConfig() *domain.TaxYearConfiguration {
	return DefaultTaxYearConfig()
}

// CreateDefaultYTD returns an all-zero year-to-date ledger
func CreateDefaultYTD() domain.EmployeeYTDData {
	z := decimal.Zero
	return domain.EmployeeYTDData{
		GrossPayYTD:         z,
		TaxablePayYTD:       z,
		TaxPaidYTD:          z,
		NIablePayYTD:        z,
		EmployeeNIYTD:       z,
		EmployerNIYTD:       z,
		PensionablePayYTD:   z,
		EmployeePensionYTD:  z,
		EmployerPensionYTD:  z,
		StudentLoanPlan1YTD: z,
		StudentLoanPlan2YTD: z,
		StudentLoanPlan4YTD: z,
		PostgraduateLoanYTD: z,
	}
}

// CalculatePayroll computes one employee's pay for one period. It does not validate
// input; callers run ValidateInput first. The input, including its YTD, is not modified.
func (pe *PayrollEngine) CalculatePayroll(input domain.PayrollCalculationInput) *domain.PayrollCalculationResult {
	log := loggerOrNop(pe.Logger)
	cfg := input.TaxYearConfig
	if cfg == nil {
		log.Debugf("employee %s: no tax year configuration supplied, using default", input.Employee.ID)
		cfg = DefaultTaxYearConfig()
	}
	period := input.Period()
	employee := input.Employee
	ytd := input.YTDData

	// gross is held to the penny
	gross := money.RoundPenny(money.Sum(input.GrossPay, input.Bonuses, input.Commission, input.TroncPayment, input.HolidayPay, input.OtherPayments))
	log.Debugf("employee %s: %s gross pay %s", employee.ID, period, gross.StringFixed(2))

	tax := pe.TaxCalc.Calculate(employee, gross, period, cfg, ytd)
	ni := pe.NICalc.Calculate(employee, gross, period, cfg, ytd)
	studentLoan := pe.StudentLoanCalc.Calculate(employee, gross, period, cfg, ytd)
	pension := pe.PensionCalc.Calculate(employee, gross, period, cfg, ytd)

	totalDeductions := money.Sum(
		tax.TaxDueThisPeriod,
		ni.EmployeeNIThisPeriod,
		studentLoan.TotalDeduction,
		pension.EmployeeContribution,
	)
	netPay := money.RoundPenny(gross.Sub(totalDeductions))

	result := &domain.PayrollCalculationResult{
		EmployeeID:          employee.ID,
		Period:              period,
		GrossPay:            gross,
		TaxableGrossPay:     gross,
		NIableGrossPay:      gross,
		PensionableGrossPay: gross,
		Tax:                 tax,
		NationalInsurance:   ni,
		StudentLoan:         studentLoan,
		Pension:             pension,
		TotalDeductions:     money.RoundPenny(totalDeductions),
		NetPay:              netPay,
		UpdatedYTD:          updateYTD(ytd, gross, tax, ni, studentLoan, pension),
	}
	result.CalculationLog = []string{
		fmt.Sprintf("Payroll for %s (%s), %s %d", employee.FullName(), employee.ID, period.Type, period.Number),
		tax.Calculation,
		ni.Calculation,
		studentLoan.Calculation,
		pension.Calculation,
		"Total deductions: " + money.Format(result.TotalDeductions),
		"Net pay: " + money.Format(result.NetPay),
	}
	log.Infof("employee %s: gross %s, deductions %s, net %s", employee.ID,
		gross.StringFixed(2), result.TotalDeductions.StringFixed(2), netPay.StringFixed(2))
	return result
}

// updateYTD builds the new ledger. Pay figures grow by this period's gross; deduction
// figures come from each calculator's own running total.
func updateYTD(
	ytd domain.EmployeeYTDData,
	gross decimal.Decimal,
	tax domain.TaxCalculationResult,
	ni domain.NICalculationResult,
	studentLoan domain.StudentLoanCalculationResult,
	pension domain.PensionCalculationResult,
) domain.EmployeeYTDData {
	next := ytd
	next.GrossPayYTD = ytd.GrossPayYTD.Add(gross)
	next.TaxablePayYTD = ytd.TaxablePayYTD.Add(gross)
	next.NIablePayYTD = ytd.NIablePayYTD.Add(gross)
	next.PensionablePayYTD = ytd.PensionablePayYTD.Add(gross)

	next.TaxPaidYTD = tax.TaxPaidYTD
	next.EmployeeNIYTD = ni.EmployeeNIYTD
	next.EmployerNIYTD = ni.EmployerNIYTD
	next.EmployeePensionYTD = pension.EmployeeContributionYTD
	next.EmployerPensionYTD = pension.EmployerContributionYTD
	for _, p := range studentLoan.Plans {
		next = next.WithStudentLoanYTD(p.Plan, p.YTD)
	}
	return next
}
