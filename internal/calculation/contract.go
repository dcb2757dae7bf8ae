package calculation

import (
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/shopspring/decimal"
)

// PeriodCalculator is the contract shared by the tax, NI, student loan and pension
// calculators. Each one reads the employee's year-to-date ledger and reports its own
// updated running totals alongside the period figures.
type PeriodCalculator[T any] interface {
	Calculate(employee domain.Employee, grossPay decimal.Decimal, period domain.Period, cfg *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) T
}

// PeriodCalculatorFunc adapts an ordinary function to PeriodCalculator.
type PeriodCalculatorFunc[T any] func(employee domain.Employee, grossPay decimal.Decimal, period domain.Period, cfg *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) T

func (f PeriodCalculatorFunc[T]) Calculate(employee domain.Employee, grossPay decimal.Decimal, period domain.Period, cfg *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) T {
	return f(employee, grossPay, period, cfg, ytd)
}
