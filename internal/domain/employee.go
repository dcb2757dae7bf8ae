package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StudentLoanPlan identifies an undergraduate repayment plan
type StudentLoanPlan string

const (
	StudentLoanNone  StudentLoanPlan = "none"
	StudentLoanPlan1 StudentLoanPlan = "plan1"
	StudentLoanPlan2 StudentLoanPlan = "plan2"
	StudentLoanPlan4 StudentLoanPlan = "plan4"

	// StudentLoanPostgraduate never appears on an Employee; it labels the
	// postgraduate entry in a student loan result.
	StudentLoanPostgraduate StudentLoanPlan = "postgraduate"
)

// AutoEnrolmentStatus is the employee's workplace pension state
type AutoEnrolmentStatus string

const (
	AutoEnrolmentEnrolled    AutoEnrolmentStatus = "enrolled"
	AutoEnrolmentOptedOut    AutoEnrolmentStatus = "opted_out"
	AutoEnrolmentPostponed   AutoEnrolmentStatus = "postponed"
	AutoEnrolmentEligible    AutoEnrolmentStatus = "eligible"
	AutoEnrolmentNotEligible AutoEnrolmentStatus = "not_eligible"
)

// Employee is the read-only snapshot of an employee consumed by the payroll engine
type Employee struct {
	ID                      string              `yaml:"id" json:"id"`
	FirstName               string              `yaml:"first_name" json:"first_name"`
	LastName                string              `yaml:"last_name" json:"last_name"`
	NationalInsuranceNumber string              `yaml:"national_insurance_number" json:"national_insurance_number"`
	TaxCode                 string              `yaml:"tax_code,omitempty" json:"tax_code,omitempty"`
	NICategory              string              `yaml:"ni_category,omitempty" json:"ni_category,omitempty"`
	StudentLoanPlan         StudentLoanPlan     `yaml:"student_loan_plan,omitempty" json:"student_loan_plan,omitempty"`
	HasPostgraduateLoan     bool                `yaml:"has_postgraduate_loan,omitempty" json:"has_postgraduate_loan,omitempty"`
	AutoEnrolmentStatus     AutoEnrolmentStatus `yaml:"auto_enrolment_status,omitempty" json:"auto_enrolment_status,omitempty"`

	// Contribution percentages are percentage points (5 means 5%). Nil falls
	// back to the tax year defaults.
	PensionContributionPercentage         *decimal.Decimal `yaml:"pension_contribution_percentage,omitempty" json:"pension_contribution_percentage,omitempty"`
	EmployerPensionContributionPercentage *decimal.Decimal `yaml:"employer_pension_contribution_percentage,omitempty" json:"employer_pension_contribution_percentage,omitempty"`

	// Week1Month1 forces a non-cumulative tax basis regardless of the tax code suffix
	Week1Month1 bool `yaml:"week1_month1,omitempty" json:"week1_month1,omitempty"`
}

// FullName returns the display name used in calculation logs
func (e Employee) FullName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.ID
	}
	return name
}

// IsPensionEnrolled reports whether auto-enrolment contributions apply
func (e Employee) IsPensionEnrolled() bool {
	return AutoEnrolmentStatus(strings.ToLower(string(e.AutoEnrolmentStatus))) == AutoEnrolmentEnrolled
}
