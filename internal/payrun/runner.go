package payrun

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/ukpayroll/internal/calculation"
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/events"
	"github.com/rgehrsitz/ukpayroll/internal/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the employee fan-out when Runner.Concurrency is unset
const DefaultConcurrency = 4

var (
	// ErrInvalidRequest is returned when the pay run itself cannot start
	ErrInvalidRequest = errors.New("invalid pay run request")
	// ErrValidationFailed reports that at least one employee failed validation
	ErrValidationFailed = errors.New("pay run has employees that failed validation")
)

// Runner executes pay runs. Each employee is calculated independently; the ledger
// Store is the only shared state.
type Runner struct {
	Engine      *calculation.PayrollEngine
	Store       ledger.Store
	Publisher   events.Publisher
	Concurrency int
	Logger      calculation.Logger

	now func() time.Time
}

// NewRunner creates a runner with an in-memory ledger and no event publishing
func NewRunner(engine *calculation.PayrollEngine) *Runner {
	if engine == nil {
		engine = calculation.NewPayrollEngine()
	}
	return &Runner{
		Engine:      engine,
		Store:       ledger.NewMemoryStore(),
		Publisher:   events.NopPublisher{},
		Concurrency: DefaultConcurrency,
		Logger:      calculation.NopLogger{},
	}
}

// Run validates, calculates, persists and publishes every employee in req.
// Results keep the request order. A cancelled context stops items that have not
// started; they are reported as skipped and the context error is returned with the
// partial result.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if err := r.check(req); err != nil {
		return nil, err
	}

	cfg := req.TaxYearConfig
	if cfg == nil {
		cfg = r.Engine.GetDefaultTaxYearConfig()
	}

	res := &Result{
		RunID:        uuid.NewString(),
		TaxYear:      cfg.TaxYear,
		PeriodType:   req.PeriodType,
		PeriodNumber: req.PeriodNumber,
		StartedAt:    r.clock(),
		Items:        make([]ItemResult, len(req.Items)),
	}
	for i, item := range req.Items {
		res.Items[i] = ItemResult{EmployeeID: item.Employee.ID, Name: item.Employee.FullName(), Status: StatusSkipped}
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	log := r.logger()
	log.Infof("pay run %s: %d employees, %s period %d, tax year %s", res.RunID, len(req.Items), req.PeriodType, req.PeriodNumber, cfg.TaxYear)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range req.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res.Items[i] = r.runItem(gctx, res.RunID, cfg, req, req.Items[i])
			return nil
		})
	}
	err := g.Wait()

	res.FinishedAt = r.clock()
	res.tally()
	log.Infof("pay run %s finished: %d calculated, %d invalid, %d failed, %d skipped",
		res.RunID, res.Calculated, res.Invalid, res.Failed, res.Skipped)

	if err != nil {
		return res, fmt.Errorf("pay run %s interrupted: %w", res.RunID, err)
	}
	return res, nil
}

func (r *Runner) runItem(ctx context.Context, runID string, cfg *domain.TaxYearConfiguration, req Request, item Item) ItemResult {
	log := r.logger()
	out := ItemResult{EmployeeID: item.Employee.ID, Name: item.Employee.FullName()}

	fallback := calculation.CreateDefaultYTD()
	if item.OpeningYTD != nil {
		fallback = *item.OpeningYTD
	}
	stored, found, err := ledger.GetOrDefault(ctx, r.Store, item.Employee.ID, cfg.TaxYear, fallback)
	if err != nil {
		return out.fail(fmt.Errorf("failed to load ytd: %w", err))
	}
	if !found {
		log.Debugf("employee %s: no ledger for %s, using opening ytd", item.Employee.ID, cfg.TaxYear)
	}
	input := item.input(req, cfg, stored.EmployeeYTDData)
	validation := r.Engine.ValidateInput(input)
	out.Validation = validation
	if !validation.Valid {
		out.Status = StatusInvalid
		out.Error = strings.Join(validation.Errors, "; ")
		log.Warnf("employee %s: validation failed: %s", item.Employee.ID, out.Error)
		return out
	}
	period := input.Period()
	if err := ledger.CheckPeriodOrder(stored.LastPeriod, period); err != nil {
		log.Warnf("employee %s: %v", item.Employee.ID, err)
		return out.fail(err)
	}

	result := r.Engine.CalculatePayroll(input)

	// Put rejects the posting when another run got there first
	entry := ledger.Entry{EmployeeYTDData: result.UpdatedYTD, LastPeriod: period}
	if err := r.Store.Put(ctx, item.Employee.ID, cfg.TaxYear, entry); err != nil {
		return out.fail(fmt.Errorf("failed to persist ytd: %w", err))
	}
	out.Result = result
	out.Status = StatusCalculated

	event := events.NewPayrollCalculatedEvent(runID, cfg.TaxYear, result, r.clock())
	if err := r.publisher().PublishPayrollCalculated(ctx, event); err != nil {
		// the ledger is already updated so the calculation stands
		log.Errorf("employee %s: %v", item.Employee.ID, err)
		out.Error = err.Error()
	} else {
		out.Published = true
	}
	return out
}

func (r *Runner) check(req Request) error {
	if r.Engine == nil || r.Store == nil {
		return fmt.Errorf("%w: runner requires an engine and a ledger store", ErrInvalidRequest)
	}
	if !req.PeriodType.Valid() {
		return fmt.Errorf("%w: unsupported period type %q", ErrInvalidRequest, req.PeriodType)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: no employees", ErrInvalidRequest)
	}
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		id := item.Employee.ID
		if id == "" {
			continue // reported per item by validation
		}
		if seen[id] {
			return fmt.Errorf("%w: employee %s appears more than once", ErrInvalidRequest, id)
		}
		seen[id] = true
	}
	return nil
}

func (r *Runner) logger() calculation.Logger {
	if r.Logger == nil {
		return calculation.NopLogger{}
	}
	return r.Logger
}

func (r *Runner) publisher() events.Publisher {
	if r.Publisher == nil {
		return events.NopPublisher{}
	}
	return r.Publisher
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (it ItemResult) fail(err error) ItemResult {
	it.Status = StatusFailed
	it.Error = err.Error()
	it.AlreadyPosted = errors.Is(err, ledger.ErrAlreadyPosted)
	return it
}

func (res *Result) tally() {
	res.Totals = Totals{
		GrossPay:        decimal.Zero,
		TotalDeductions: decimal.Zero,
		NetPay:          decimal.Zero,
		EmployerNI:      decimal.Zero,
		EmployerPension: decimal.Zero,
	}
	for _, it := range res.Items {
		switch it.Status {
		case StatusCalculated:
			res.Calculated++
			res.Totals.add(it.Result)
		case StatusInvalid:
			res.Invalid++
		case StatusFailed:
			res.Failed++
		case StatusSkipped:
			res.Skipped++
		}
	}
}
