package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/shopspring/decimal"
)

// ytdField maps an employee_ytd column to its ledger figure. Columns, scan
// destinations and upsert arguments are all generated from this list.
type ytdField struct {
	column string
	value  func(*domain.EmployeeYTDData) *decimal.Decimal
}

var ytdFields = []ytdField{
	{"gross_pay_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.GrossPayYTD }},
	{"taxable_pay_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.TaxablePayYTD }},
	{"tax_paid_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.TaxPaidYTD }},
	{"niable_pay_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.NIablePayYTD }},
	{"employee_ni_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.EmployeeNIYTD }},
	{"employer_ni_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.EmployerNIYTD }},
	{"pensionable_pay_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.PensionablePayYTD }},
	{"employee_pension_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.EmployeePensionYTD }},
	{"employer_pension_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.EmployerPensionYTD }},
	{"student_loan_plan1_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.StudentLoanPlan1YTD }},
	{"student_loan_plan2_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.StudentLoanPlan2YTD }},
	{"student_loan_plan4_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.StudentLoanPlan4YTD }},
	{"postgraduate_loan_ytd", func(y *domain.EmployeeYTDData) *decimal.Decimal { return &y.PostgraduateLoanYTD }},
}

// entryColumns is the SELECT list read by scanEntry: the ledger figures, then the
// last posted period
var entryColumns = func() string {
	cols := make([]string, 0, len(ytdFields)+2)
	for _, f := range ytdFields {
		cols = append(cols, f.column)
	}
	return strings.Join(append(cols, "last_period_type", "last_period_number"), ", ")
}()

func schemaStatements() []string {
	var cols strings.Builder
	for _, f := range ytdFields {
		fmt.Fprintf(&cols, "\n\t%s NUMERIC(14,2) NOT NULL DEFAULT 0,", f.column)
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS employee_ytd (
	employee_id TEXT NOT NULL,
	tax_year    TEXT NOT NULL,` + cols.String() + `
	last_period_type   TEXT        NOT NULL DEFAULT '',
	last_period_number INTEGER     NOT NULL DEFAULT 0,
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (employee_id, tax_year)
)`,
		// tables created before period tracking
		`ALTER TABLE employee_ytd ADD COLUMN IF NOT EXISTS last_period_type TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE employee_ytd ADD COLUMN IF NOT EXISTS last_period_number INTEGER NOT NULL DEFAULT 0`,
	}
}

func entryWriteColumns() []string {
	cols := make([]string, 0, len(ytdFields)+4)
	cols = append(cols, "employee_id", "tax_year")
	for _, f := range ytdFields {
		cols = append(cols, f.column)
	}
	return append(cols, "last_period_type", "last_period_number")
}

// insertSQL writes a first entry; a concurrent first insert fails on the primary key
func insertSQL() string {
	cols := entryWriteColumns()
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return `INSERT INTO employee_ytd (` + strings.Join(cols, ", ") + `) VALUES (` + strings.Join(placeholders, ", ") + `)`
}

// upsertSQL overwrites an entry whose row is held by FOR UPDATE
func upsertSQL() string {
	updates := []string{}
	for _, c := range entryWriteColumns()[2:] {
		updates = append(updates, c+" = EXCLUDED."+c)
	}
	updates = append(updates, "updated_at = NOW()")
	return insertSQL() + ` ON CONFLICT (employee_id, tax_year) DO UPDATE SET ` + strings.Join(updates, ", ")
}

// upsertArgs lists the arguments of upsertSQL in column order
func upsertArgs(employeeID, taxYear string, entry *Entry) []any {
	args := []any{employeeID, taxYear}
	for _, f := range ytdFields {
		args = append(args, *f.value(&entry.EmployeeYTDData))
	}
	return append(args, string(entry.LastPeriod.Type), entry.LastPeriod.Number)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// PostgresStore persists ledgers in the employee_ytd table
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and verifies the connection
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the employee_ytd table when missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create employee_ytd table: %w", err)
		}
	}
	return nil
}

// Close releases the pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// scanEntry scans entryColumns into entry. extra destinations come first, matching
// columns selected ahead of entryColumns.
func scanEntry(row pgx.Row, entry *Entry, extra ...any) error {
	var periodType string
	dest := make([]any, 0, len(extra)+len(ytdFields)+2)
	dest = append(dest, extra...)
	for _, f := range ytdFields {
		dest = append(dest, f.value(&entry.EmployeeYTDData))
	}
	dest = append(dest, &periodType, &entry.LastPeriod.Number)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	entry.LastPeriod.Type = domain.PeriodType(periodType)
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, employeeID, taxYear string) (Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM employee_ytd WHERE employee_id = $1 AND tax_year = $2`

	var entry Entry
	if err := scanEntry(s.pool.QueryRow(ctx, query, employeeID, taxYear), &entry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("failed to get ytd ledger: %w", err)
	}
	return entry, nil
}

// Put upserts the snapshot inside a transaction, locking the existing row so the
// posting checks and the write see the same state. A first insert racing another
// one fails on the primary key and is reported as ErrAlreadyPosted.
func (s *PostgresStore) Put(ctx context.Context, employeeID, taxYear string, entry Entry) error {
	if err := validateKey(employeeID, taxYear, entry.LastPeriod); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var prev Entry
	lockQuery := `SELECT ` + entryColumns + ` FROM employee_ytd WHERE employee_id = $1 AND tax_year = $2 FOR UPDATE`
	err = scanEntry(tx.QueryRow(ctx, lockQuery, employeeID, taxYear), &prev)
	query := upsertSQL()
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		query = insertSQL()
	case err != nil:
		return fmt.Errorf("failed to read ytd ledger: %w", err)
	default:
		if err := CheckPosting(prev, entry); err != nil {
			return err
		}
	}

	if _, err = tx.Exec(ctx, query, upsertArgs(employeeID, taxYear, &entry)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: concurrent posting for employee %s", ErrAlreadyPosted, employeeID)
		}
		return fmt.Errorf("failed to upsert ytd ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ytd ledger: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, taxYear string) (map[string]Entry, error) {
	query := `SELECT employee_id, ` + entryColumns + ` FROM employee_ytd WHERE tax_year = $1 ORDER BY employee_id`

	rows, err := s.pool.Query(ctx, query, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list ytd ledgers: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Entry)
	for rows.Next() {
		var id string
		var entry Entry
		if err := scanEntry(rows, &entry, &id); err != nil {
			return nil, fmt.Errorf("failed to scan ytd ledger: %w", err)
		}
		out[id] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list ytd ledgers: %w", err)
	}
	return out, nil
}
