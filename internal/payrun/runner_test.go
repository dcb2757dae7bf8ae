package payrun

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rgehrsitz/ukpayroll/internal/calculation"
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/events"
	"github.com/rgehrsitz/ukpayroll/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func employee(id string) domain.Employee {
	return domain.Employee{
		ID:                      id,
		FirstName:               "Test",
		LastName:                id,
		NationalInsuranceNumber: "AB123456C",
		TaxCode:                 "1257L",
		NICategory:              "A",
		StudentLoanPlan:         domain.StudentLoanNone,
		AutoEnrolmentStatus:     domain.AutoEnrolmentOptedOut,
	}
}

func monthlyRequest(period int, items ...Item) Request {
	start := time.Date(2024, time.April, 6, 0, 0, 0, 0, time.UTC).AddDate(0, period-1, 0)
	return Request{
		PeriodType:      domain.PeriodMonthly,
		PeriodNumber:    period,
		PeriodStartDate: start,
		PeriodEndDate:   start.AddDate(0, 1, -1),
		Items:           items,
	}
}

func item(id, gross string) Item {
	return Item{Employee: employee(id), GrossPay: dec(gross)}
}

type failingPublisher struct{}

func (failingPublisher) PublishPayrollCalculated(context.Context, events.PayrollCalculatedEvent) error {
	return errors.New("broker unavailable")
}

func (failingPublisher) Close() error { return nil }

type brokenStore struct{ ledger.Store }

func (brokenStore) Get(context.Context, string, string) (ledger.Entry, error) {
	return ledger.Entry{}, errors.New("connection refused")
}

func TestRunner_Run(t *testing.T) {
	runner := NewRunner(calculation.NewPayrollEngine())
	publisher := &events.RecordingPublisher{}
	runner.Publisher = publisher

	invalid := item("", "3000")
	res, err := runner.Run(context.Background(), monthlyRequest(1, item("EMP001", "3000"), invalid, item("EMP002", "3000")))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "2024-25", res.TaxYear)
	assert.Equal(t, 2, res.Calculated)
	assert.Equal(t, 1, res.Invalid)
	require.Len(t, res.Items, 3)

	assert.Equal(t, "EMP001", res.Items[0].EmployeeID)
	assert.Equal(t, StatusCalculated, res.Items[0].Status)
	assert.True(t, res.Items[0].Published)
	assert.True(t, res.Items[0].Result.NetPay.Equal(dec("2453.44")))

	assert.Equal(t, StatusInvalid, res.Items[1].Status)
	assert.Nil(t, res.Items[1].Result)
	assert.Contains(t, res.Items[1].Error, "employee ID is required")

	assert.True(t, res.Totals.GrossPay.Equal(dec("6000")))
	assert.True(t, res.Totals.NetPay.Equal(dec("4906.88")))
	assert.True(t, res.Totals.TotalDeductions.Equal(dec("1093.12")))
	assert.True(t, res.Totals.EmployerNI.Equal(dec("618.80")))
	assert.True(t, res.Totals.EmployerPension.IsZero())

	assert.ErrorIs(t, res.Err(), ErrValidationFailed)

	recorded := publisher.Events()
	require.Len(t, recorded, 2)
	for _, e := range recorded {
		assert.Equal(t, res.RunID, e.RunID)
		assert.Equal(t, "2024-25", e.TaxYear)
	}

	stored, err := runner.Store.Get(context.Background(), "EMP001", "2024-25")
	require.NoError(t, err)
	assert.True(t, stored.TaxPaidYTD.Equal(dec("390.40")))
}

func TestRunner_CarriesLedgerBetweenPeriods(t *testing.T) {
	runner := NewRunner(nil)
	ctx := context.Background()

	_, err := runner.Run(ctx, monthlyRequest(1, item("EMP001", "3000")))
	require.NoError(t, err)
	res, err := runner.Run(ctx, monthlyRequest(2, item("EMP001", "3000")))
	require.NoError(t, err)

	result := res.Items[0].Result
	require.NotNil(t, result)
	assert.True(t, result.Tax.TaxDueThisPeriod.Equal(dec("390.60")))
	assert.True(t, result.UpdatedYTD.TaxPaidYTD.Equal(dec("781.00")))
	assert.True(t, result.UpdatedYTD.GrossPayYTD.Equal(dec("6000")))
	assert.True(t, result.UpdatedYTD.EmployeeNIYTD.Equal(dec("312.32")))
	assert.NoError(t, res.Err())
}

func TestRunner_OpeningYTD(t *testing.T) {
	runner := NewRunner(nil)

	opening := calculation.CreateDefaultYTD()
	opening.GrossPayYTD = dec("3000")
	opening.TaxablePayYTD = dec("3000")
	opening.TaxPaidYTD = dec("390.40")
	opening.NIablePayYTD = dec("3000")
	opening.EmployeeNIYTD = dec("156.16")
	opening.EmployerNIYTD = dec("309.40")

	starter := item("EMP009", "3000")
	starter.OpeningYTD = &opening

	res, err := runner.Run(context.Background(), monthlyRequest(2, starter))
	require.NoError(t, err)
	result := res.Items[0].Result
	require.NotNil(t, result)
	assert.True(t, result.Tax.TaxDueThisPeriod.Equal(dec("390.60")))
	assert.True(t, result.UpdatedYTD.GrossPayYTD.Equal(dec("6000")))
}

func TestRunner_PreservesOrderUnderConcurrency(t *testing.T) {
	runner := NewRunner(nil)
	runner.Concurrency = 8

	var items []Item
	for i := range 50 {
		items = append(items, item(fmt.Sprintf("EMP%03d", i), fmt.Sprintf("%d", 2000+i*10)))
	}
	res, err := runner.Run(context.Background(), monthlyRequest(1, items...))
	require.NoError(t, err)

	require.Len(t, res.Items, 50)
	assert.Equal(t, 50, res.Calculated)
	for i, it := range res.Items {
		assert.Equal(t, fmt.Sprintf("EMP%03d", i), it.EmployeeID)
		assert.True(t, it.Result.GrossPay.Equal(decimal.NewFromInt(int64(2000+i*10))))
	}
}

func TestRunner_RequestErrors(t *testing.T) {
	runner := NewRunner(nil)

	tests := []struct {
		name string
		req  Request
	}{
		{"no employees", monthlyRequest(1)},
		{"duplicate employee", monthlyRequest(1, item("EMP001", "100"), item("EMP001", "200"))},
		{"bad period type", Request{PeriodType: "annual", PeriodNumber: 1, Items: []Item{item("EMP001", "100")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := runner.Run(context.Background(), tt.req)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestRunner_RejectsRepostedPeriod(t *testing.T) {
	runner := NewRunner(nil)
	publisher := &events.RecordingPublisher{}
	runner.Publisher = publisher
	ctx := context.Background()

	first, err := runner.Run(ctx, monthlyRequest(1, item("EMP001", "3000")))
	require.NoError(t, err)
	require.Equal(t, StatusCalculated, first.Items[0].Status)
	assert.NoError(t, first.Conflict())

	again, err := runner.Run(ctx, monthlyRequest(1, item("EMP001", "3000")))
	require.NoError(t, err)

	it := again.Items[0]
	assert.Equal(t, StatusFailed, it.Status)
	assert.True(t, it.AlreadyPosted)
	assert.Nil(t, it.Result)
	assert.Contains(t, it.Error, "already posted")
	assert.True(t, again.Totals.GrossPay.IsZero())
	assert.ErrorIs(t, again.Conflict(), ledger.ErrAlreadyPosted)
	assert.Len(t, publisher.Events(), 1)

	stored, err := runner.Store.Get(ctx, "EMP001", "2024-25")
	require.NoError(t, err)
	assert.True(t, stored.GrossPayYTD.Equal(dec("3000")))
	assert.True(t, stored.TaxPaidYTD.Equal(dec("390.40")))
	assert.Equal(t, domain.Period{Type: domain.PeriodMonthly, Number: 1}, stored.LastPeriod)
}

func TestRunner_ConcurrentRunsPostOnce(t *testing.T) {
	runner := NewRunner(nil)
	ctx := context.Background()

	results := make([]*Result, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := runner.Run(ctx, monthlyRequest(1, item("EMP001", "3000")))
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()

	calculated := 0
	for _, res := range results {
		require.NotNil(t, res)
		calculated += res.Calculated
	}
	assert.Equal(t, 1, calculated)

	stored, err := runner.Store.Get(ctx, "EMP001", "2024-25")
	require.NoError(t, err)
	assert.True(t, stored.GrossPayYTD.Equal(dec("3000")))
	assert.True(t, stored.TaxPaidYTD.Equal(dec("390.40")))
}

func TestRunner_PublishFailureKeepsCalculation(t *testing.T) {
	runner := NewRunner(nil)
	runner.Publisher = failingPublisher{}

	res, err := runner.Run(context.Background(), monthlyRequest(1, item("EMP001", "3000")))
	require.NoError(t, err)

	it := res.Items[0]
	assert.Equal(t, StatusCalculated, it.Status)
	assert.False(t, it.Published)
	assert.Contains(t, it.Error, "broker unavailable")

	_, err = runner.Store.Get(context.Background(), "EMP001", "2024-25")
	assert.NoError(t, err)
}

func TestRunner_StoreFailure(t *testing.T) {
	runner := NewRunner(nil)
	runner.Store = brokenStore{ledger.NewMemoryStore()}

	res, err := runner.Run(context.Background(), monthlyRequest(1, item("EMP001", "3000")))
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, res.Items[0].Status)
	assert.Contains(t, res.Items[0].Error, "connection refused")
	assert.Equal(t, 1, res.Failed)
	assert.Error(t, res.Err())
}

func TestRunner_CancelledContext(t *testing.T) {
	runner := NewRunner(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := runner.Run(ctx, monthlyRequest(1, item("EMP001", "3000"), item("EMP002", "3000")))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Skipped)
	assert.True(t, res.Totals.GrossPay.IsZero())
}

func TestSingleResult(t *testing.T) {
	engine := calculation.NewPayrollEngine()
	in := item("EMP001", "3000").input(monthlyRequest(1), engine.GetDefaultTaxYearConfig(), calculation.CreateDefaultYTD())
	result := engine.CalculatePayroll(in)

	res := SingleResult(in, engine.ValidateInput(in), result)
	assert.Equal(t, 1, res.Calculated)
	assert.Equal(t, "2024-25", res.TaxYear)
	assert.True(t, res.Totals.NetPay.Equal(dec("2453.44")))

	rejected := SingleResult(in, domain.ValidationResult{Errors: []string{"bad"}}, nil)
	assert.Equal(t, 1, rejected.Invalid)
}
