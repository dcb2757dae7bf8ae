package payrun

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/ledger"
	"github.com/shopspring/decimal"
)

// Item is one employee's pay for the run
type Item struct {
	Employee      domain.Employee `yaml:"employee" json:"employee"`
	GrossPay      decimal.Decimal `yaml:"gross_pay" json:"gross_pay"`
	Bonuses       decimal.Decimal `yaml:"bonuses,omitempty" json:"bonuses,omitempty"`
	Commission    decimal.Decimal `yaml:"commission,omitempty" json:"commission,omitempty"`
	TroncPayment  decimal.Decimal `yaml:"tronc_payment,omitempty" json:"tronc_payment,omitempty"`
	HolidayPay    decimal.Decimal `yaml:"holiday_pay,omitempty" json:"holiday_pay,omitempty"`
	OtherPayments decimal.Decimal `yaml:"other_payments,omitempty" json:"other_payments,omitempty"`

	// OpeningYTD seeds the ledger when the store has no entry for the employee,
	// e.g. a new starter carrying figures from a previous employer
	OpeningYTD *domain.EmployeeYTDData `yaml:"opening_ytd,omitempty" json:"opening_ytd,omitempty"`
}

// Request describes a pay run for a single period
type Request struct {
	TaxYearConfig   *domain.TaxYearConfiguration `yaml:"tax_year_config,omitempty" json:"tax_year_config,omitempty"`
	PeriodType      domain.PeriodType            `yaml:"period_type" json:"period_type"`
	PeriodNumber    int                          `yaml:"period_number" json:"period_number"`
	PeriodStartDate time.Time                    `yaml:"period_start_date" json:"period_start_date"`
	PeriodEndDate   time.Time                    `yaml:"period_end_date" json:"period_end_date"`
	Items           []Item                       `yaml:"employees" json:"employees"`
}

func (it Item) input(req Request, cfg *domain.TaxYearConfiguration, ytd domain.EmployeeYTDData) domain.PayrollCalculationInput {
	return domain.PayrollCalculationInput{
		Employee:        it.Employee,
		GrossPay:        it.GrossPay,
		Bonuses:         it.Bonuses,
		Commission:      it.Commission,
		TroncPayment:    it.TroncPayment,
		HolidayPay:      it.HolidayPay,
		OtherPayments:   it.OtherPayments,
		PeriodStartDate: req.PeriodStartDate,
		PeriodEndDate:   req.PeriodEndDate,
		PeriodType:      req.PeriodType,
		PeriodNumber:    req.PeriodNumber,
		TaxYearConfig:   cfg,
		YTDData:         ytd,
	}
}

// Status is the outcome of one employee in a run
type Status string

const (
	StatusCalculated Status = "calculated"
	StatusInvalid    Status = "invalid"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// ItemResult is the outcome for one employee. AlreadyPosted marks a failure caused
// by the period being in the ledger already.
type ItemResult struct {
	EmployeeID    string                           `json:"employee_id"`
	Name          string                           `json:"name"`
	Status        Status                           `json:"status"`
	Error         string                           `json:"error,omitempty"`
	Published     bool                             `json:"published"`
	AlreadyPosted bool                             `json:"already_posted,omitempty"`
	Validation    domain.ValidationResult          `json:"validation"`
	Result        *domain.PayrollCalculationResult `json:"result,omitempty"`
}

// Totals aggregates the calculated items of a run
type Totals struct {
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	EmployerNI      decimal.Decimal `json:"employer_ni"`
	EmployerPension decimal.Decimal `json:"employer_pension"`
}

func (t *Totals) add(r *domain.PayrollCalculationResult) {
	if r == nil {
		return
	}
	t.GrossPay = t.GrossPay.Add(r.GrossPay)
	t.TotalDeductions = t.TotalDeductions.Add(r.TotalDeductions)
	t.NetPay = t.NetPay.Add(r.NetPay)
	t.EmployerNI = t.EmployerNI.Add(r.NationalInsurance.EmployerNIThisPeriod)
	t.EmployerPension = t.EmployerPension.Add(r.Pension.EmployerContribution)
}

// Result is the outcome of a pay run
type Result struct {
	RunID        string            `json:"run_id"`
	TaxYear      string            `json:"tax_year"`
	PeriodType   domain.PeriodType `json:"period_type"`
	PeriodNumber int               `json:"period_number"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`

	Calculated int `json:"calculated"`
	Invalid    int `json:"invalid"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`

	Totals Totals       `json:"totals"`
	Items  []ItemResult `json:"items"`
}

// Err reports ErrValidationFailed when any employee was rejected, or a summary
// error when any employee failed after validation
func (res *Result) Err() error {
	switch {
	case res.Invalid > 0:
		return fmt.Errorf("%w: %d of %d", ErrValidationFailed, res.Invalid, len(res.Items))
	case res.Failed > 0:
		return fmt.Errorf("pay run %s: %d employees failed", res.RunID, res.Failed)
	}
	return nil
}

// Conflict reports ledger.ErrAlreadyPosted when nothing was calculated because the
// period had already been posted for the employees attempted
func (res *Result) Conflict() error {
	if res.Calculated > 0 {
		return nil
	}
	for _, it := range res.Items {
		if it.AlreadyPosted {
			return fmt.Errorf("pay run %s: %s period %d: %w", res.RunID, res.PeriodType, res.PeriodNumber, ledger.ErrAlreadyPosted)
		}
	}
	return nil
}

// SingleResult wraps a standalone calculation so the run formatters can render it
func SingleResult(input domain.PayrollCalculationInput, validation domain.ValidationResult, result *domain.PayrollCalculationResult) *Result {
	item := ItemResult{
		EmployeeID: input.Employee.ID,
		Name:       input.Employee.FullName(),
		Status:     StatusCalculated,
		Validation: validation,
		Result:     result,
	}
	if result == nil {
		item.Status = StatusInvalid
	}
	taxYear := ""
	if input.TaxYearConfig != nil {
		taxYear = input.TaxYearConfig.TaxYear
	}
	res := &Result{
		TaxYear:      taxYear,
		PeriodType:   input.PeriodType,
		PeriodNumber: input.PeriodNumber,
		Items:        []ItemResult{item},
	}
	res.tally()
	return res
}
