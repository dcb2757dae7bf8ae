package domain

import (
	"fmt"
	"strings"
)

// PeriodType is the pay frequency
type PeriodType string

const (
	PeriodWeekly      PeriodType = "weekly"
	PeriodFortnightly PeriodType = "fortnightly"
	PeriodFourWeekly  PeriodType = "four_weekly"
	PeriodMonthly     PeriodType = "monthly"
)

// PeriodTypes lists the supported pay frequencies
var PeriodTypes = []PeriodType{PeriodWeekly, PeriodFortnightly, PeriodFourWeekly, PeriodMonthly}

// ParsePeriodType accepts the canonical names plus a few common spellings
func ParsePeriodType(s string) (PeriodType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "week":
		return PeriodWeekly, nil
	case "fortnightly", "fortnight", "biweekly":
		return PeriodFortnightly, nil
	case "four_weekly", "four-weekly", "fourweekly", "4-weekly":
		return PeriodFourWeekly, nil
	case "monthly", "month":
		return PeriodMonthly, nil
	}
	return "", fmt.Errorf("unsupported period type %q", s)
}

// Valid reports whether p is one of the supported pay frequencies
func (p PeriodType) Valid() bool {
	return p.Divisor() > 0
}

// Divisor is the number of periods of this type in a tax year
func (p PeriodType) Divisor() int {
	switch p {
	case PeriodWeekly:
		return 52
	case PeriodFortnightly:
		return 26
	case PeriodFourWeekly:
		return 13
	case PeriodMonthly:
		return 12
	}
	return 0
}

// MaxPeriodNumber is the highest period number allowed in a tax year.
// Weekly, fortnightly and four-weekly payrolls can run one extra period
// (week 53) when the pay day falls on 5 April.
func (p PeriodType) MaxPeriodNumber() int {
	switch p {
	case PeriodWeekly:
		return 53
	case PeriodFortnightly:
		return 27
	case PeriodFourWeekly:
		return 14
	case PeriodMonthly:
		return 12
	}
	return 0
}

// IsExtraPeriod reports whether number is the week 53 style extra period
func (p PeriodType) IsExtraPeriod(number int) bool {
	return p != PeriodMonthly && p.Valid() && number > p.Divisor()
}

// Period identifies one pay period within a tax year
type Period struct {
	Type   PeriodType `yaml:"type" json:"type"`
	Number int        `yaml:"number" json:"number"`
}

func (p Period) String() string {
	return fmt.Sprintf("%s period %d", p.Type, p.Number)
}
