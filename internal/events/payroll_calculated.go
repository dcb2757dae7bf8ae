package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	PayrollCalculatedTopic = "payroll.calculated.v1"
	PayrollCalculatedType  = "payroll.calculated"
)

// PayrollCalculatedEvent announces one employee's completed calculation in a pay run
type PayrollCalculatedEvent struct {
	EventID         string            `json:"event_id"`
	EventType       string            `json:"event_type"`
	RunID           string            `json:"run_id"`
	EmployeeID      string            `json:"employee_id"`
	TaxYear         string            `json:"tax_year"`
	PeriodType      domain.PeriodType `json:"period_type"`
	PeriodNumber    int               `json:"period_number"`
	GrossPay        decimal.Decimal   `json:"gross_pay"`
	TotalDeductions decimal.Decimal   `json:"total_deductions"`
	NetPay          decimal.Decimal   `json:"net_pay"`
	EmployerNI      decimal.Decimal   `json:"employer_ni"`
	OccurredAt      time.Time         `json:"occurred_at"`
}

// NewPayrollCalculatedEvent builds the event for a calculation result
func NewPayrollCalculatedEvent(runID, taxYear string, result *domain.PayrollCalculationResult, now time.Time) PayrollCalculatedEvent {
	return PayrollCalculatedEvent{
		EventID:         uuid.NewString(),
		EventType:       PayrollCalculatedType,
		RunID:           runID,
		EmployeeID:      result.EmployeeID,
		TaxYear:         taxYear,
		PeriodType:      result.Period.Type,
		PeriodNumber:    result.Period.Number,
		GrossPay:        result.GrossPay,
		TotalDeductions: result.TotalDeductions,
		NetPay:          result.NetPay,
		EmployerNI:      result.NationalInsurance.EmployerNIThisPeriod,
		OccurredAt:      now.UTC(),
	}
}
