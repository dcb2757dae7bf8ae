package calculation

import (
	"fmt"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/shopspring/decimal"
)

// PAYE TAX ASSUMPTIONS:
//
// 1. Cumulative basis: free pay and band limits are pro-rated by periodNumber/divisor
//    and tax due is cumulative tax less tax already paid this year.
// 2. Non-cumulative basis (W1/M1/X suffix, Week1Month1 flag, week 53 style extra
//    periods): the period is treated as period 1 of the year.
// 3. Taxable pay is rounded down to the whole pound, tax down to the penny.
// 4. No refunds: a cumulative overpayment yields zero tax for the period.
// 5. Overriding limit: on K codes tax in a period never exceeds 50% of that period's pay.

// Tax bases reported in TaxCalculationResult.Basis
const (
	BasisCumulative    = "cumulative"
	BasisNonCumulative = "non-cumulative"
)

var overridingLimit = decimal.RequireFromString("0.5")

// TaxCalculator computes PAYE income tax for a pay period
type TaxCalculator struct {
	Logger Logger
}

// NewTaxCalculator creates a new income tax calculator
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{Logger: NopLogger{}}
}

// Calculate computes tax due for the period and the updated tax paid YTD
func (tc *TaxCalculator) Calculate(employee domain.Employee, grossPay decimal.Decimal, period domain.Period, cfg *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) domain.TaxCalculationResult {
	log := loggerOrNop(tc.Logger)

	codeText := employee.TaxCode
	if normalizeTaxCode(codeText) == "" {
		codeText = DefaultTaxCode
	}
	code, err := ParseTaxCode(codeText)
	if err != nil {
		log.Warnf("employee %s: %v, using %s", employee.ID, err, DefaultTaxCode)
		code, _ = ParseTaxCode(DefaultTaxCode)
	}

	divisor := periodDivisor(period.Type)
	cumulative := !code.NonCumulative && !employee.Week1Month1 && !period.Type.IsExtraPeriod(period.Number)
	periodsToDate := int64(1)
	basis := BasisNonCumulative
	basePay := grossPay
	if cumulative {
		periodsToDate = int64(period.Number)
		basis = BasisCumulative
		basePay = ytd.TaxablePayYTD.Add(grossPay)
	}

	// scale pro-rates an annual figure to the basis in use
	scale := func(annual decimal.Decimal) decimal.Decimal {
		return annual.Mul(decimal.NewFromInt(periodsToDate)).Div(decimal.NewFromInt(int64(divisor)))
	}

	freePay := decimal.Zero
	taxable := decimal.Zero
	tax := decimal.Zero
	bands := code.bandSet(cfg)

	switch code.Kind {
	case TaxCodeAllowance:
		freePay = scale(code.Allowance)
		taxable = money.FloorPound(money.NonNegative(basePay.Sub(freePay)))
		tax = bandedTax(taxable, bands, scale)
	case TaxCodeK:
		freePay = scale(code.KAddition).Neg()
		taxable = money.FloorPound(money.NonNegative(basePay.Sub(freePay)))
		tax = bandedTax(taxable, bands, scale)
	case TaxCodeBasicRate:
		taxable = money.FloorPound(money.NonNegative(basePay))
		tax = taxable.Mul(flatRate(bands, bands.BasicRateBand))
	case TaxCodeHigherRate:
		taxable = money.FloorPound(money.NonNegative(basePay))
		tax = taxable.Mul(flatRate(bands, bands.BasicRateBand+1+code.DBand))
	case TaxCodeNoTax:
		taxable = money.FloorPound(money.NonNegative(basePay))
	}
	tax = money.TruncatePenny(tax)

	due := tax
	if cumulative {
		due = money.NonNegative(tax.Sub(ytd.TaxPaidYTD))
	}

	limited := false
	limit := money.TruncatePenny(money.NonNegative(grossPay).Mul(overridingLimit))
	if code.Kind == TaxCodeK && due.GreaterThan(limit) {
		due = limit
		limited = true
		log.Debugf("employee %s: overriding limit applied, tax capped at %s", employee.ID, limit.StringFixed(2))
	}

	result := domain.TaxCalculationResult{
		TaxCode:          code.Code,
		Region:           code.Region,
		Basis:            basis,
		FreePay:          money.RoundPenny(freePay),
		TaxablePay:       taxable,
		TaxablePayYTD:    ytd.TaxablePayYTD.Add(grossPay),
		TaxDueThisPeriod: due,
		TaxPaidYTD:       ytd.TaxPaidYTD.Add(due),
		RegulatoryLimit:  limited,
	}
	result.Calculation = fmt.Sprintf("Income tax: code %s (%s, %s), free pay %s, taxable pay %s, tax due %s, tax paid YTD %s",
		result.TaxCode, result.Region, result.Basis,
		money.Format(result.FreePay), money.Format(result.TaxablePay),
		money.Format(result.TaxDueThisPeriod), money.Format(result.TaxPaidYTD))
	if limited {
		result.Calculation += " (50% overriding limit applied)"
	}
	log.Debugf("employee %s: %s", employee.ID, result.Calculation)
	return result
}

// bandedTax applies each band's rate to the slice of taxable pay falling within it.
// A zero upper limit, or the last band, is open-ended.
func bandedTax(taxable decimal.Decimal, set domain.TaxBandSet, scale func(decimal.Decimal) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	lower := decimal.Zero
	for i, band := range set.Bands {
		open := band.UpperLimit.IsZero() || i == len(set.Bands)-1
		upper := taxable
		if !open {
			upper = decimal.Min(taxable, scale(band.UpperLimit))
		}
		if upper.GreaterThan(lower) {
			total = total.Add(upper.Sub(lower).Mul(band.Rate))
		}
		if open || !taxable.GreaterThan(upper) {
			break
		}
		lower = upper
	}
	return total
}

// flatRate returns the rate of band index i, clamped to the top band
func flatRate(set domain.TaxBandSet, i int) decimal.Decimal {
	if len(set.Bands) == 0 {
		return decimal.Zero
	}
	if i < 0 {
		i = 0
	}
	if i >= len(set.Bands) {
		i = len(set.Bands) - 1
	}
	return set.Bands[i].Rate
}

// periodDivisor returns the annual divisor for pt, treating unknown types as monthly
func periodDivisor(pt domain.PeriodType) int {
	if d := pt.Divisor(); d > 0 {
		return d
	}
	return domain.PeriodMonthly.Divisor()
}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
