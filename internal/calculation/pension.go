package calculation

import (
	"fmt"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/shopspring/decimal"
)

var (
	minContributionPercent = decimal.Zero
	maxContributionPercent = decimal.NewFromInt(100)
)

// PensionCalculator computes auto-enrolment contributions on qualifying earnings
type PensionCalculator struct {
	Logger Logger
}

// NewPensionCalculator creates a new pension calculator
func NewPensionCalculator() *PensionCalculator {
	return &PensionCalculator{Logger: NopLogger{}}
}

// Calculate computes the period's employee and employer contributions. Only
// enrolled employees contribute; every other status yields zero.
func (pc *PensionCalculator) Calculate(employee domain.Employee, grossPay decimal.Decimal, period domain.Period, cfg *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) domain.PensionCalculationResult {
	log := loggerOrNop(pc.Logger)
	pension := cfg.Pension
	divisor := periodDivisor(period.Type)

	lower := money.RoundPenny(money.PerPeriod(pension.AutoEnrolmentLowerLimitAnnual, divisor))
	upper := money.RoundPenny(money.PerPeriod(pension.AutoEnrolmentUpperLimitAnnual, divisor))

	result := domain.PensionCalculationResult{
		IsEnrolled:              employee.IsPensionEnrolled(),
		QualifyingLowerLimit:    lower,
		QualifyingUpperLimit:    upper,
		PensionablePay:          decimal.Zero,
		EmployeePercentage:      decimal.Zero,
		EmployerPercentage:      decimal.Zero,
		EmployeeContribution:    decimal.Zero,
		EmployerContribution:    decimal.Zero,
		EmployeeContributionYTD: ytd.EmployeePensionYTD,
		EmployerContributionYTD: ytd.EmployerPensionYTD,
	}

	if !result.IsEnrolled {
		status := string(employee.AutoEnrolmentStatus)
		if status == "" {
			status = "not set"
		}
		result.Calculation = fmt.Sprintf("Pension: not enrolled (status %s), no contributions", status)
		log.Debugf("employee %s: %s", employee.ID, result.Calculation)
		return result
	}

	employeePct := pension.DefaultEmployeePercentage
	if employee.PensionContributionPercentage != nil {
		employeePct = *employee.PensionContributionPercentage
	}
	employerPct := pension.DefaultEmployerPercentage
	if employee.EmployerPensionContributionPercentage != nil {
		employerPct = *employee.EmployerPensionContributionPercentage
	}

	pensionable := money.NonNegative(decimal.Min(grossPay, upper).Sub(lower))
	employeeContribution := money.RoundPenny(pensionable.Mul(money.Percent(employeePct)))
	employerContribution := money.RoundPenny(pensionable.Mul(money.Percent(employerPct)))

	result.PensionablePay = pensionable
	result.EmployeePercentage = employeePct
	result.EmployerPercentage = employerPct
	result.EmployeeContribution = employeeContribution
	result.EmployerContribution = employerContribution
	result.EmployeeContributionYTD = ytd.EmployeePensionYTD.Add(employeeContribution)
	result.EmployerContributionYTD = ytd.EmployerPensionYTD.Add(employerContribution)
	result.Calculation = fmt.Sprintf("Pension: qualifying earnings %s (band %s to %s), employee %s%% = %s, employer %s%% = %s",
		money.Format(pensionable), money.Format(lower), money.Format(upper),
		employeePct.String(), money.Format(employeeContribution),
		employerPct.String(), money.Format(employerContribution))
	log.Debugf("employee %s: %s", employee.ID, result.Calculation)
	return result
}

// ValidatePensionContribution checks a contribution given in percentage points
// lies between 0 and 100 inclusive
func ValidatePensionContribution(percentage decimal.Decimal) domain.FormatValidation {
	if percentage.LessThan(minContributionPercent) || percentage.GreaterThan(maxContributionPercent) {
		return domain.FormatValidation{
			Valid: false,
			Error: fmt.Sprintf("pension contribution %s%% must be between 0%% and 100%%", percentage.String()),
		}
	}
	return domain.FormatValidation{Valid: true}
}
