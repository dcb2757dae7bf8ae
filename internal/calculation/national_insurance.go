package calculation

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/shopspring/decimal"
)

// NICategories lists the class 1 category letters accepted by ValidateNICategory
var NICategories = []string{"A", "B", "C", "F", "H", "I", "J", "L", "M", "S", "V", "X", "Z"}

// NICalculator computes class 1 employee and employer National Insurance
type NICalculator struct {
	Logger Logger
}

// NewNICalculator creates a new National Insurance calculator
func NewNICalculator() *NICalculator {
	return &NICalculator{Logger: NopLogger{}}
}

// Calculate computes NI for one period. Thresholds are annual figures divided by
// the period divisor and rounded to the whole pound; contributions are rounded to the penny.
func (nc *NICalculator) Calculate(employee domain.Employee, grossPay decimal.Decimal, period domain.Period, cfg *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) domain.NICalculationResult {
	log := loggerOrNop(nc.Logger)
	ni := cfg.NationalInsurance
	divisor := periodDivisor(period.Type)

	category := strings.ToUpper(strings.TrimSpace(employee.NICategory))
	if category == "" {
		category = DefaultNICategory
	}
	rates, ok := ni.Categories[category]
	if !ok {
		log.Warnf("employee %s: NI category %q not configured, using %s", employee.ID, category, DefaultNICategory)
		category = DefaultNICategory
		rates = ni.Categories[category]
	}

	threshold := func(annual decimal.Decimal) decimal.Decimal {
		return money.RoundPound(money.PerPeriod(annual, divisor))
	}
	lel := threshold(ni.LowerEarningsLimit)
	pt := threshold(ni.PrimaryThreshold)
	st := threshold(ni.SecondaryThreshold)
	uel := threshold(ni.UpperEarningsLimit)

	mainBand := money.NonNegative(decimal.Min(grossPay, uel).Sub(pt))
	additionalBand := money.NonNegative(grossPay.Sub(decimal.Max(uel, pt)))
	employeeNI := money.RoundPenny(mainBand.Mul(rates.EmployeeMainRate).Add(additionalBand.Mul(rates.EmployeeAdditionalRate)))

	employerBase := st
	switch rates.EmployerRelief {
	case domain.EmployerReliefUST:
		employerBase = decimal.Max(st, threshold(ni.UpperSecondaryThreshold))
	case domain.EmployerReliefFreeport:
		employerBase = decimal.Max(st, threshold(ni.FreeportUpperSecondaryThreshold))
	case domain.EmployerReliefVeterans:
		employerBase = decimal.Max(st, threshold(ni.VeteransUpperSecondaryThreshold))
	}
	employerNI := money.RoundPenny(money.NonNegative(grossPay.Sub(employerBase)).Mul(rates.EmployerRate))

	result := domain.NICalculationResult{
		Category:             category,
		NIablePay:            grossPay,
		PrimaryThreshold:     pt,
		SecondaryThreshold:   st,
		UpperEarningsLimit:   uel,
		EarningsAtOrAboveLEL: grossPay.GreaterThanOrEqual(lel),
		EmployeeNIThisPeriod: employeeNI,
		EmployerNIThisPeriod: employerNI,
		EmployeeNIYTD:        ytd.EmployeeNIYTD.Add(employeeNI),
		EmployerNIYTD:        ytd.EmployerNIYTD.Add(employerNI),
	}
	result.Calculation = fmt.Sprintf("National Insurance: category %s, PT %s, ST %s, UEL %s, employee %s, employer %s",
		category, money.Format(pt), money.Format(st), money.Format(uel),
		money.Format(employeeNI), money.Format(employerNI))
	log.Debugf("employee %s: %s", employee.ID, result.Calculation)
	return result
}

// ValidateNICategory checks that category is a known class 1 category letter
func ValidateNICategory(category string) domain.FormatValidation {
	c := strings.ToUpper(strings.TrimSpace(category))
	if c == "" {
		return domain.FormatValidation{Valid: false, Error: "NI category is required"}
	}
	for _, known := range NICategories {
		if c == known {
			return domain.FormatValidation{Valid: true}
		}
	}
	return domain.FormatValidation{
		Valid: false,
		Error: fmt.Sprintf("invalid NI category %q, expected one of %s", category, strings.Join(NICategories, ", ")),
	}
}
