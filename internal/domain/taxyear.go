package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxYearConfiguration is the immutable set of statutory constants for one UK tax year.
// All thresholds are annual amounts in pounds; rates are fractions (0.2 for 20%)
// unless a field name says Percentage.
type TaxYearConfiguration struct {
	TaxYear       string    `yaml:"tax_year" json:"tax_year"`
	EffectiveFrom time.Time `yaml:"effective_from" json:"effective_from"`
	EffectiveTo   time.Time `yaml:"effective_to" json:"effective_to"`

	PersonalAllowance decimal.Decimal `yaml:"personal_allowance" json:"personal_allowance"`

	IncomeTax         IncomeTaxConfig         `yaml:"income_tax" json:"income_tax"`
	NationalInsurance NationalInsuranceConfig `yaml:"national_insurance" json:"national_insurance"`
	StudentLoans      StudentLoanConfig       `yaml:"student_loans" json:"student_loans"`
	Pension           PensionConfig           `yaml:"pension" json:"pension"`
	StatutoryPayments StatutoryPaymentRates   `yaml:"statutory_payments" json:"statutory_payments"`
}

// Covers reports whether date falls inside the tax year
func (c *TaxYearConfiguration) Covers(date time.Time) bool {
	return !date.Before(c.EffectiveFrom) && !date.After(c.EffectiveTo)
}

// IncomeTaxConfig holds the three regional band sets
type IncomeTaxConfig struct {
	England  TaxBandSet `yaml:"england" json:"england"`
	Scotland TaxBandSet `yaml:"scotland" json:"scotland"`
	Wales    TaxBandSet `yaml:"wales" json:"wales"`
}

// TaxBandSet is an ordered list of bands applied to taxable pay (pay after allowances)
type TaxBandSet struct {
	Bands []TaxBand `yaml:"bands" json:"bands"`
	// BasicRateBand is the index of the band BR codes use; D0 is the band after it, D1 the next
	BasicRateBand int `yaml:"basic_rate_band" json:"basic_rate_band"`
}

// TaxBand is one slice of taxable pay. UpperLimit is the top of the band measured
// from zero taxable pay; a zero limit marks the open-ended top band.
type TaxBand struct {
	Name       string          `yaml:"name" json:"name"`
	UpperLimit decimal.Decimal `yaml:"upper_limit" json:"upper_limit"`
	Rate       decimal.Decimal `yaml:"rate" json:"rate"`
}

// NationalInsuranceConfig holds class 1 thresholds and per-category rates
type NationalInsuranceConfig struct {
	LowerEarningsLimit              decimal.Decimal            `yaml:"lower_earnings_limit" json:"lower_earnings_limit"`
	PrimaryThreshold                decimal.Decimal            `yaml:"primary_threshold" json:"primary_threshold"`
	SecondaryThreshold              decimal.Decimal            `yaml:"secondary_threshold" json:"secondary_threshold"`
	UpperEarningsLimit              decimal.Decimal            `yaml:"upper_earnings_limit" json:"upper_earnings_limit"`
	UpperSecondaryThreshold         decimal.Decimal            `yaml:"upper_secondary_threshold" json:"upper_secondary_threshold"`
	FreeportUpperSecondaryThreshold decimal.Decimal            `yaml:"freeport_upper_secondary_threshold" json:"freeport_upper_secondary_threshold"`
	VeteransUpperSecondaryThreshold decimal.Decimal            `yaml:"veterans_upper_secondary_threshold" json:"veterans_upper_secondary_threshold"`
	Categories                      map[string]NICategoryRates `yaml:"categories" json:"categories"`
}

// EmployerRelief names the threshold up to which a category pays 0% employer NI
type EmployerRelief string

const (
	EmployerReliefNone     EmployerRelief = ""
	EmployerReliefUST      EmployerRelief = "ust"
	EmployerReliefFreeport EmployerRelief = "fust"
	EmployerReliefVeterans EmployerRelief = "vust"
)

// NICategoryRates are the contribution rates for one category letter
type NICategoryRates struct {
	Description            string          `yaml:"description,omitempty" json:"description,omitempty"`
	EmployeeMainRate       decimal.Decimal `yaml:"employee_main_rate" json:"employee_main_rate"`
	EmployeeAdditionalRate decimal.Decimal `yaml:"employee_additional_rate" json:"employee_additional_rate"`
	EmployerRate           decimal.Decimal `yaml:"employer_rate" json:"employer_rate"`
	EmployerRelief         EmployerRelief  `yaml:"employer_relief,omitempty" json:"employer_relief,omitempty"`
}

// StudentLoanConfig holds repayment thresholds and rates
type StudentLoanConfig struct {
	Plan1Threshold        decimal.Decimal `yaml:"plan1_threshold" json:"plan1_threshold"`
	Plan2Threshold        decimal.Decimal `yaml:"plan2_threshold" json:"plan2_threshold"`
	Plan4Threshold        decimal.Decimal `yaml:"plan4_threshold" json:"plan4_threshold"`
	PostgraduateThreshold decimal.Decimal `yaml:"postgraduate_threshold" json:"postgraduate_threshold"`
	UndergraduateRate     decimal.Decimal `yaml:"undergraduate_rate" json:"undergraduate_rate"`
	PostgraduateRate      decimal.Decimal `yaml:"postgraduate_rate" json:"postgraduate_rate"`
}

// Threshold returns the annual threshold for plan and whether the plan is known
func (c StudentLoanConfig) Threshold(plan StudentLoanPlan) (decimal.Decimal, bool) {
	switch plan {
	case StudentLoanPlan1:
		return c.Plan1Threshold, true
	case StudentLoanPlan2:
		return c.Plan2Threshold, true
	case StudentLoanPlan4:
		return c.Plan4Threshold, true
	case StudentLoanPostgraduate:
		return c.PostgraduateThreshold, true
	}
	return decimal.Zero, false
}

// PensionConfig holds the auto-enrolment qualifying earnings band and default contributions
type PensionConfig struct {
	AutoEnrolmentLowerLimitAnnual decimal.Decimal `yaml:"auto_enrolment_lower_limit_annual" json:"auto_enrolment_lower_limit_annual"`
	AutoEnrolmentUpperLimitAnnual decimal.Decimal `yaml:"auto_enrolment_upper_limit_annual" json:"auto_enrolment_upper_limit_annual"`
	AutoEnrolmentTriggerAnnual    decimal.Decimal `yaml:"auto_enrolment_trigger_annual" json:"auto_enrolment_trigger_annual"`
	DefaultEmployeePercentage     decimal.Decimal `yaml:"default_employee_percentage" json:"default_employee_percentage"`
	DefaultEmployerPercentage     decimal.Decimal `yaml:"default_employer_percentage" json:"default_employer_percentage"`
	MinimumTotalPercentage        decimal.Decimal `yaml:"minimum_total_percentage" json:"minimum_total_percentage"`
	MinimumEmployerPercentage     decimal.Decimal `yaml:"minimum_employer_percentage" json:"minimum_employer_percentage"`
}

// StatutoryPaymentRates are weekly statutory payment amounts
type StatutoryPaymentRates struct {
	SSPWeeklyRate            decimal.Decimal `yaml:"ssp_weekly_rate" json:"ssp_weekly_rate"`
	SMPWeeklyRate            decimal.Decimal `yaml:"smp_weekly_rate" json:"smp_weekly_rate"`
	SPPWeeklyRate            decimal.Decimal `yaml:"spp_weekly_rate" json:"spp_weekly_rate"`
	SAPWeeklyRate            decimal.Decimal `yaml:"sap_weekly_rate" json:"sap_weekly_rate"`
	ShPPWeeklyRate           decimal.Decimal `yaml:"shpp_weekly_rate" json:"shpp_weekly_rate"`
	SPBPWeeklyRate           decimal.Decimal `yaml:"spbp_weekly_rate" json:"spbp_weekly_rate"`
	SMPHigherRatePercentage  decimal.Decimal `yaml:"smp_higher_rate_percentage" json:"smp_higher_rate_percentage"`
	LowerEarningsLimitWeekly decimal.Decimal `yaml:"lower_earnings_limit_weekly" json:"lower_earnings_limit_weekly"`
}
