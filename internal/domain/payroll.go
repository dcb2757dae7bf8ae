package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeYTDData is one employee's cumulative ledger for a tax year.
// Every field only grows within a tax year.
type EmployeeYTDData struct {
	GrossPayYTD         decimal.Decimal `yaml:"gross_pay_ytd" json:"gross_pay_ytd"`
	TaxablePayYTD       decimal.Decimal `yaml:"taxable_pay_ytd" json:"taxable_pay_ytd"`
	TaxPaidYTD          decimal.Decimal `yaml:"tax_paid_ytd" json:"tax_paid_ytd"`
	NIablePayYTD        decimal.Decimal `yaml:"niable_pay_ytd" json:"niable_pay_ytd"`
	EmployeeNIYTD       decimal.Decimal `yaml:"employee_ni_ytd" json:"employee_ni_ytd"`
	EmployerNIYTD       decimal.Decimal `yaml:"employer_ni_ytd" json:"employer_ni_ytd"`
	PensionablePayYTD   decimal.Decimal `yaml:"pensionable_pay_ytd" json:"pensionable_pay_ytd"`
	EmployeePensionYTD  decimal.Decimal `yaml:"employee_pension_ytd" json:"employee_pension_ytd"`
	EmployerPensionYTD  decimal.Decimal `yaml:"employer_pension_ytd" json:"employer_pension_ytd"`
	StudentLoanPlan1YTD decimal.Decimal `yaml:"student_loan_plan1_ytd" json:"student_loan_plan1_ytd"`
	StudentLoanPlan2YTD decimal.Decimal `yaml:"student_loan_plan2_ytd" json:"student_loan_plan2_ytd"`
	StudentLoanPlan4YTD decimal.Decimal `yaml:"student_loan_plan4_ytd" json:"student_loan_plan4_ytd"`
	PostgraduateLoanYTD decimal.Decimal `yaml:"postgraduate_loan_ytd" json:"postgraduate_loan_ytd"`
}

// StudentLoanYTD returns the running total for one plan
func (y EmployeeYTDData) StudentLoanYTD(plan StudentLoanPlan) decimal.Decimal {
	switch plan {
	case StudentLoanPlan1:
		return y.StudentLoanPlan1YTD
	case StudentLoanPlan2:
		return y.StudentLoanPlan2YTD
	case StudentLoanPlan4:
		return y.StudentLoanPlan4YTD
	case StudentLoanPostgraduate:
		return y.PostgraduateLoanYTD
	}
	return decimal.Zero
}

// WithStudentLoanYTD returns a copy with the plan's running total replaced
func (y EmployeeYTDData) WithStudentLoanYTD(plan StudentLoanPlan, value decimal.Decimal) EmployeeYTDData {
	switch plan {
	case StudentLoanPlan1:
		y.StudentLoanPlan1YTD = value
	case StudentLoanPlan2:
		y.StudentLoanPlan2YTD = value
	case StudentLoanPlan4:
		y.StudentLoanPlan4YTD = value
	case StudentLoanPostgraduate:
		y.PostgraduateLoanYTD = value
	}
	return y
}

// Fields lists every ledger figure by name, in declaration order
func (y EmployeeYTDData) Fields() []NamedAmount {
	return []NamedAmount{
		{"gross_pay_ytd", y.GrossPayYTD},
		{"taxable_pay_ytd", y.TaxablePayYTD},
		{"tax_paid_ytd", y.TaxPaidYTD},
		{"niable_pay_ytd", y.NIablePayYTD},
		{"employee_ni_ytd", y.EmployeeNIYTD},
		{"employer_ni_ytd", y.EmployerNIYTD},
		{"pensionable_pay_ytd", y.PensionablePayYTD},
		{"employee_pension_ytd", y.EmployeePensionYTD},
		{"employer_pension_ytd", y.EmployerPensionYTD},
		{"student_loan_plan1_ytd", y.StudentLoanPlan1YTD},
		{"student_loan_plan2_ytd", y.StudentLoanPlan2YTD},
		{"student_loan_plan4_ytd", y.StudentLoanPlan4YTD},
		{"postgraduate_loan_ytd", y.PostgraduateLoanYTD},
	}
}

// NamedAmount pairs a ledger field name with its value
type NamedAmount struct {
	Name  string
	Value decimal.Decimal
}

// PayrollCalculationInput bundles everything needed for one employee's pay period.
// Optional pay components left at zero contribute nothing.
type PayrollCalculationInput struct {
	Employee Employee `yaml:"employee" json:"employee"`

	GrossPay      decimal.Decimal `yaml:"gross_pay" json:"gross_pay"`
	Bonuses       decimal.Decimal `yaml:"bonuses,omitempty" json:"bonuses,omitempty"`
	Commission    decimal.Decimal `yaml:"commission,omitempty" json:"commission,omitempty"`
	TroncPayment  decimal.Decimal `yaml:"tronc_payment,omitempty" json:"tronc_payment,omitempty"`
	HolidayPay    decimal.Decimal `yaml:"holiday_pay,omitempty" json:"holiday_pay,omitempty"`
	OtherPayments decimal.Decimal `yaml:"other_payments,omitempty" json:"other_payments,omitempty"`

	PeriodStartDate time.Time  `yaml:"period_start_date" json:"period_start_date"`
	PeriodEndDate   time.Time  `yaml:"period_end_date" json:"period_end_date"`
	PeriodType      PeriodType `yaml:"period_type" json:"period_type"`
	PeriodNumber    int        `yaml:"period_number" json:"period_number"`

	TaxYearConfig *TaxYearConfiguration `yaml:"tax_year_config,omitempty" json:"tax_year_config,omitempty"`
	YTDData       EmployeeYTDData       `yaml:"ytd_data" json:"ytd_data"`
}

// Period returns the input's period descriptor
func (in PayrollCalculationInput) Period() Period {
	return Period{Type: in.PeriodType, Number: in.PeriodNumber}
}

// TaxCalculationResult is the income tax figure for one period
type TaxCalculationResult struct {
	TaxCode          string          `json:"tax_code"`
	Region           string          `json:"region"`
	Basis            string          `json:"basis"`
	FreePay          decimal.Decimal `json:"free_pay"`
	TaxablePay       decimal.Decimal `json:"taxable_pay"`
	TaxablePayYTD    decimal.Decimal `json:"taxable_pay_ytd"`
	TaxDueThisPeriod decimal.Decimal `json:"tax_due_this_period"`
	TaxPaidYTD       decimal.Decimal `json:"tax_paid_ytd"`
	RegulatoryLimit  bool            `json:"regulatory_limit_applied"`
	Calculation      string          `json:"calculation"`
}

// NICalculationResult is the class 1 National Insurance figure for one period
type NICalculationResult struct {
	Category             string          `json:"category"`
	NIablePay            decimal.Decimal `json:"niable_pay"`
	PrimaryThreshold     decimal.Decimal `json:"primary_threshold"`
	SecondaryThreshold   decimal.Decimal `json:"secondary_threshold"`
	UpperEarningsLimit   decimal.Decimal `json:"upper_earnings_limit"`
	EarningsAtOrAboveLEL bool            `json:"earnings_at_or_above_lel"`
	EmployeeNIThisPeriod decimal.Decimal `json:"employee_ni_this_period"`
	EmployerNIThisPeriod decimal.Decimal `json:"employer_ni_this_period"`
	EmployeeNIYTD        decimal.Decimal `json:"employee_ni_ytd"`
	EmployerNIYTD        decimal.Decimal `json:"employer_ni_ytd"`
	Calculation          string          `json:"calculation"`
}

// StudentLoanPlanResult is the deduction for a single loan plan
type StudentLoanPlanResult struct {
	Plan      StudentLoanPlan `json:"plan"`
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
	Deduction decimal.Decimal `json:"deduction"`
	YTD       decimal.Decimal `json:"ytd"`
}

// StudentLoanCalculationResult combines every applicable loan
type StudentLoanCalculationResult struct {
	HasStudentLoan bool                    `json:"has_student_loan"`
	Plans          []StudentLoanPlanResult `json:"plans"`
	TotalDeduction decimal.Decimal         `json:"total_deduction"`
	Calculation    string                  `json:"calculation"`
}

// PensionCalculationResult is the auto-enrolment contribution for one period
type PensionCalculationResult struct {
	IsEnrolled              bool            `json:"is_enrolled"`
	QualifyingLowerLimit    decimal.Decimal `json:"qualifying_lower_limit"`
	QualifyingUpperLimit    decimal.Decimal `json:"qualifying_upper_limit"`
	PensionablePay          decimal.Decimal `json:"pensionable_pay"`
	EmployeePercentage      decimal.Decimal `json:"employee_percentage"`
	EmployerPercentage      decimal.Decimal `json:"employer_percentage"`
	EmployeeContribution    decimal.Decimal `json:"employee_contribution"`
	EmployerContribution    decimal.Decimal `json:"employer_contribution"`
	EmployeeContributionYTD decimal.Decimal `json:"employee_contribution_ytd"`
	EmployerContributionYTD decimal.Decimal `json:"employer_contribution_ytd"`
	Calculation             string          `json:"calculation"`
}

// PayrollCalculationResult is the engine's full output for one employee and period
type PayrollCalculationResult struct {
	EmployeeID string `json:"employee_id"`
	Period     Period `json:"period"`

	GrossPay            decimal.Decimal `json:"gross_pay"`
	TaxableGrossPay     decimal.Decimal `json:"taxable_gross_pay"`
	NIableGrossPay      decimal.Decimal `json:"niable_gross_pay"`
	PensionableGrossPay decimal.Decimal `json:"pensionable_gross_pay"`

	Tax               TaxCalculationResult         `json:"tax"`
	NationalInsurance NICalculationResult          `json:"national_insurance"`
	StudentLoan       StudentLoanCalculationResult `json:"student_loan"`
	Pension           PensionCalculationResult     `json:"pension"`

	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`

	UpdatedYTD     EmployeeYTDData `json:"updated_ytd"`
	CalculationLog []string        `json:"calculation_log"`
}

// ValidationResult collects blocking errors and advisory warnings
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// FormatValidation is the outcome of a single format check
type FormatValidation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
