// Package ledger persists each employee's year-to-date figures keyed by employee and tax year.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
)

var (
	// ErrNotFound is returned when no ledger exists for the employee and tax year
	ErrNotFound = errors.New("ytd ledger not found")
	// ErrNonMonotonic is returned when a snapshot would decrease a stored figure
	ErrNonMonotonic = errors.New("ytd snapshot decreases a stored figure")
	// ErrAlreadyPosted is returned when the snapshot's period is not after the last posted one
	ErrAlreadyPosted = errors.New("pay period already posted")
)

// Entry is a YTD snapshot together with the pay period that produced it
type Entry struct {
	domain.EmployeeYTDData `yaml:",inline"`
	LastPeriod             domain.Period `yaml:"last_period" json:"last_period"`
}

// Store reads and writes YTD snapshots. Put rejects a snapshot whose period is
// equal to or earlier than the stored one, so each period is posted once.
type Store interface {
	Get(ctx context.Context, employeeID, taxYear string) (Entry, error)
	Put(ctx context.Context, employeeID, taxYear string, entry Entry) error
	List(ctx context.Context, taxYear string) (map[string]Entry, error)
}

// CheckPosting validates next against the stored entry prev
func CheckPosting(prev, next Entry) error {
	if err := CheckPeriodOrder(prev.LastPeriod, next.LastPeriod); err != nil {
		return err
	}
	return CheckMonotonic(prev.EmployeeYTDData, next.EmployeeYTDData)
}

// CheckPeriodOrder returns ErrAlreadyPosted unless next falls later in the tax year
// than last. Periods of different frequencies are compared by elapsed fraction of
// the year. A zero last period (nothing recorded) accepts anything.
func CheckPeriodOrder(last, next domain.Period) error {
	if !last.Type.Valid() || last.Number <= 0 {
		return nil
	}
	// next/nd > last/ld, cross-multiplied
	if next.Number*last.Type.Divisor() <= last.Number*next.Type.Divisor() {
		return fmt.Errorf("%w: %s is not after %s", ErrAlreadyPosted, next, last)
	}
	return nil
}

// CheckMonotonic returns ErrNonMonotonic when any field of next is below prev
func CheckMonotonic(prev, next domain.EmployeeYTDData) error {
	before := prev.Fields()
	after := next.Fields()
	var decreased []string
	for i := range before {
		if after[i].Value.LessThan(before[i].Value) {
			decreased = append(decreased, fmt.Sprintf("%s %s -> %s", before[i].Name, before[i].Value.StringFixed(2), after[i].Value.StringFixed(2)))
		}
	}
	if len(decreased) > 0 {
		return fmt.Errorf("%w: %s", ErrNonMonotonic, strings.Join(decreased, ", "))
	}
	return nil
}

func validateKey(employeeID, taxYear string, period domain.Period) error {
	if strings.TrimSpace(employeeID) == "" {
		return fmt.Errorf("employee ID is required")
	}
	if strings.TrimSpace(taxYear) == "" {
		return fmt.Errorf("tax year is required")
	}
	if !period.Type.Valid() || period.Number < 1 || period.Number > period.Type.MaxPeriodNumber() {
		return fmt.Errorf("invalid pay period %s", period)
	}
	return nil
}
