// Package money holds the currency helpers shared by the payroll calculators.
//
// All amounts are shopspring decimals in pounds. Arithmetic stays exact and
// rounding happens only where a calculator says so.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Pounds builds an amount from a string literal such as "1047.50".
// It panics on malformed input and is meant for fixtures and tests.
func Pounds(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Percent converts percentage points (5 for 5%) into a fraction.
func Percent(points decimal.Decimal) decimal.Decimal {
	return points.Div(hundred)
}

// RoundPenny rounds to two decimal places, half away from zero.
func RoundPenny(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// TruncatePenny drops fractions of a penny (toward zero).
func TruncatePenny(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(2)
}

// FloorPound rounds down to the whole pound.
func FloorPound(d decimal.Decimal) decimal.Decimal {
	return d.Floor()
}

// RoundPound rounds to the whole pound, half away from zero.
func RoundPound(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// PerPeriod divides an annual figure by the period divisor without rounding.
func PerPeriod(annual decimal.Decimal, divisor int) decimal.Decimal {
	if divisor <= 0 {
		return annual
	}
	return annual.Div(decimal.NewFromInt(int64(divisor)))
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds all amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Format renders an amount as pounds with thousands separators, e.g. £1,234.50.
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "£" + b.String() + "." + frac
}

// FormatPercent renders a fraction as a percentage, e.g. 0.138 as 13.8%.
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(hundred).String() + "%"
}
