package calculation

import (
	"time"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/shopspring/decimal"
)

// DefaultTaxCode is applied when an employee has no tax code on record
const DefaultTaxCode = "1257L"

// DefaultNICategory is applied when an employee has no NI category on record
const DefaultNICategory = "A"

// DefaultTaxYearConfig returns the 2024/25 UK tax year constants.
// It builds a fresh value on every call so callers may not alias each other's config.
func DefaultTaxYearConfig() *domain.TaxYearConfiguration {
	p := money.Pounds
	return &domain.TaxYearConfiguration{
		TaxYear:       "2024-25",
		EffectiveFrom: time.Date(2024, time.April, 6, 0, 0, 0, 0, time.UTC),
		EffectiveTo:   time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC),

		PersonalAllowance: p("12570"),

		IncomeTax: domain.IncomeTaxConfig{
			England: domain.TaxBandSet{
				BasicRateBand: 0,
				Bands: []domain.TaxBand{
					{Name: "basic", UpperLimit: p("37700"), Rate: p("0.20")},
					{Name: "higher", UpperLimit: p("125140"), Rate: p("0.40")},
					{Name: "additional", UpperLimit: decimal.Zero, Rate: p("0.45")},
				},
			},
			Scotland: domain.TaxBandSet{
				BasicRateBand: 1,
				Bands: []domain.TaxBand{
					{Name: "starter", UpperLimit: p("2306"), Rate: p("0.19")},
					{Name: "basic", UpperLimit: p("13991"), Rate: p("0.20")},
					{Name: "intermediate", UpperLimit: p("31092"), Rate: p("0.21")},
					{Name: "higher", UpperLimit: p("62430"), Rate: p("0.42")},
					{Name: "advanced", UpperLimit: p("125140"), Rate: p("0.45")},
					{Name: "top", UpperLimit: decimal.Zero, Rate: p("0.48")},
				},
			},
			Wales: domain.TaxBandSet{
				BasicRateBand: 0,
				Bands: []domain.TaxBand{
					{Name: "basic", UpperLimit: p("37700"), Rate: p("0.20")},
					{Name: "higher", UpperLimit: p("125140"), Rate: p("0.40")},
					{Name: "additional", UpperLimit: decimal.Zero, Rate: p("0.45")},
				},
			},
		},

		NationalInsurance: domain.NationalInsuranceConfig{
			LowerEarningsLimit:              p("6396"),
			PrimaryThreshold:                p("12570"),
			SecondaryThreshold:              p("9100"),
			UpperEarningsLimit:              p("50270"),
			UpperSecondaryThreshold:         p("50270"),
			FreeportUpperSecondaryThreshold: p("25000"),
			VeteransUpperSecondaryThreshold: p("50270"),
			Categories: map[string]domain.NICategoryRates{
				"A": {Description: "Standard", EmployeeMainRate: p("0.08"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138")},
				"B": {Description: "Married women and widows reduced rate", EmployeeMainRate: p("0.0185"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138")},
				"C": {Description: "Over State Pension age", EmployeeMainRate: decimal.Zero, EmployeeAdditionalRate: decimal.Zero, EmployerRate: p("0.138")},
				"F": {Description: "Freeport", EmployeeMainRate: p("0.08"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138"), EmployerRelief: domain.EmployerReliefFreeport},
				"H": {Description: "Apprentice under 25", EmployeeMainRate: p("0.08"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138"), EmployerRelief: domain.EmployerReliefUST},
				"I": {Description: "Freeport married women and widows reduced rate", EmployeeMainRate: p("0.0185"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138"), EmployerRelief: domain.EmployerReliefFreeport},
				"J": {Description: "Deferred", EmployeeMainRate: p("0.02"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138")},
				"L": {Description: "Freeport deferred", EmployeeMainRate: p("0.02"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138"), EmployerRelief: domain.EmployerReliefFreeport},
				"M": {Description: "Under 21", EmployeeMainRate: p("0.08"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138"), EmployerRelief: domain.EmployerReliefUST},
				"S": {Description: "Freeport over State Pension age", EmployeeMainRate: decimal.Zero, EmployeeAdditionalRate: decimal.Zero, EmployerRate: p("0.138"), EmployerRelief: domain.EmployerReliefFreeport},
				"V": {Description: "Armed forces veteran", EmployeeMainRate: p("0.08"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138"), EmployerRelief: domain.EmployerReliefVeterans},
				"X": {Description: "Exempt", EmployeeMainRate: decimal.Zero, EmployeeAdditionalRate: decimal.Zero, EmployerRate: decimal.Zero},
				"Z": {Description: "Under 21 deferred", EmployeeMainRate: p("0.02"), EmployeeAdditionalRate: p("0.02"), EmployerRate: p("0.138"), EmployerRelief: domain.EmployerReliefUST},
			},
		},

		StudentLoans: domain.StudentLoanConfig{
			Plan1Threshold:        p("24990"),
			Plan2Threshold:        p("27295"),
			Plan4Threshold:        p("31395"),
			PostgraduateThreshold: p("21000"),
			UndergraduateRate:     p("0.09"),
			PostgraduateRate:      p("0.06"),
		},

		Pension: domain.PensionConfig{
			AutoEnrolmentLowerLimitAnnual: p("6240"),
			AutoEnrolmentUpperLimitAnnual: p("50270"),
			AutoEnrolmentTriggerAnnual:    p("10000"),
			DefaultEmployeePercentage:     p("5"),
			DefaultEmployerPercentage:     p("3"),
			MinimumTotalPercentage:        p("8"),
			MinimumEmployerPercentage:     p("3"),
		},

		StatutoryPayments: domain.StatutoryPaymentRates{
			SSPWeeklyRate:            p("116.75"),
			SMPWeeklyRate:            p("184.03"),
			SPPWeeklyRate:            p("184.03"),
			SAPWeeklyRate:            p("184.03"),
			ShPPWeeklyRate:           p("184.03"),
			SPBPWeeklyRate:           p("184.03"),
			SMPHigherRatePercentage:  p("90"),
			LowerEarningsLimitWeekly: p("123"),
		},
	}
}
