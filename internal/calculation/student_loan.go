package calculation

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/shopspring/decimal"
)

// StudentLoanCalculator computes undergraduate and postgraduate loan deductions
type StudentLoanCalculator struct {
	Logger Logger
}

// NewStudentLoanCalculator creates a new student loan calculator
func NewStudentLoanCalculator() *StudentLoanCalculator {
	return &StudentLoanCalculator{Logger: NopLogger{}}
}

// Calculate returns one entry per applicable loan. An employee with no loans gets an
// explicit empty result rather than nil plans.
func (sc *StudentLoanCalculator) Calculate(employee domain.Employee, grossPay decimal.Decimal, period domain.Period, cfg *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) domain.StudentLoanCalculationResult {
	log := loggerOrNop(sc.Logger)
	loans := cfg.StudentLoans
	divisor := periodDivisor(period.Type)

	result := domain.StudentLoanCalculationResult{
		Plans:          []domain.StudentLoanPlanResult{},
		TotalDeduction: decimal.Zero,
	}

	add := func(plan domain.StudentLoanPlan, rate decimal.Decimal) {
		annual, ok := loans.Threshold(plan)
		if !ok {
			return
		}
		threshold := money.RoundPenny(money.PerPeriod(annual, divisor))
		deduction := money.RoundPenny(money.NonNegative(grossPay.Sub(threshold)).Mul(rate))
		result.Plans = append(result.Plans, domain.StudentLoanPlanResult{
			Plan:      plan,
			Threshold: threshold,
			Rate:      rate,
			Deduction: deduction,
			YTD:       ytd.StudentLoanYTD(plan).Add(deduction),
		})
		result.TotalDeduction = result.TotalDeduction.Add(deduction)
	}

	plan := domain.StudentLoanPlan(strings.ToLower(strings.TrimSpace(string(employee.StudentLoanPlan))))
	switch plan {
	case domain.StudentLoanPlan1, domain.StudentLoanPlan2, domain.StudentLoanPlan4:
		add(plan, loans.UndergraduateRate)
	case "", domain.StudentLoanNone:
	default:
		log.Warnf("employee %s: unknown student loan plan %q ignored", employee.ID, employee.StudentLoanPlan)
	}
	if employee.HasPostgraduateLoan {
		add(domain.StudentLoanPostgraduate, loans.PostgraduateRate)
	}

	result.HasStudentLoan = len(result.Plans) > 0
	if !result.HasStudentLoan {
		result.Calculation = "Student loan: no student loans"
		return result
	}

	parts := make([]string, 0, len(result.Plans))
	for _, p := range result.Plans {
		parts = append(parts, fmt.Sprintf("%s %s over %s = %s", p.Plan, money.FormatPercent(p.Rate), money.Format(p.Threshold), money.Format(p.Deduction)))
	}
	result.Calculation = fmt.Sprintf("Student loan: %s, total %s", strings.Join(parts, "; "), money.Format(result.TotalDeduction))
	log.Debugf("employee %s: %s", employee.ID, result.Calculation)
	return result
}

// ValidateStudentLoanPlan checks plan is one of none, plan1, plan2 or plan4 (case-insensitive)
func ValidateStudentLoanPlan(plan string) domain.FormatValidation {
	switch domain.StudentLoanPlan(strings.ToLower(strings.TrimSpace(plan))) {
	case domain.StudentLoanNone, domain.StudentLoanPlan1, domain.StudentLoanPlan2, domain.StudentLoanPlan4:
		return domain.FormatValidation{Valid: true}
	}
	return domain.FormatValidation{
		Valid: false,
		Error: fmt.Sprintf("invalid student loan plan %q, expected none, plan1, plan2 or plan4", plan),
	}
}
