package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
)

// ErrInvalidConfig is returned when a tax year configuration is structurally unusable
var ErrInvalidConfig = errors.New("invalid tax year configuration")

// ValidateTaxYearConfig checks the fields every calculator reads. The engine trusts
// its configuration, so this runs before a loaded file is used.
func ValidateTaxYearConfig(cfg *domain.TaxYearConfiguration) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is nil", ErrInvalidConfig)
	}
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(cfg.TaxYear) == "" {
		add("tax_year is required")
	}
	if !cfg.EffectiveFrom.IsZero() && !cfg.EffectiveTo.IsZero() && !cfg.EffectiveFrom.Before(cfg.EffectiveTo) {
		add("effective_from must be before effective_to")
	}
	if !cfg.PersonalAllowance.IsPositive() {
		add("personal_allowance must be positive")
	}

	for _, region := range []struct {
		name string
		set  domain.TaxBandSet
	}{
		{"england", cfg.IncomeTax.England},
		{"scotland", cfg.IncomeTax.Scotland},
		{"wales", cfg.IncomeTax.Wales},
	} {
		validateBands(region.name, region.set, add)
	}

	ni := cfg.NationalInsurance
	if !ni.PrimaryThreshold.IsPositive() || !ni.SecondaryThreshold.IsPositive() || !ni.UpperEarningsLimit.IsPositive() {
		add("national_insurance thresholds must be positive")
	}
	if ni.UpperEarningsLimit.LessThan(ni.PrimaryThreshold) {
		add("national_insurance upper_earnings_limit must not be below primary_threshold")
	}
	if _, ok := ni.Categories["A"]; !ok {
		add("national_insurance category A is required")
	}
	for letter, rates := range ni.Categories {
		if rates.EmployeeMainRate.IsNegative() || rates.EmployeeAdditionalRate.IsNegative() || rates.EmployerRate.IsNegative() {
			add("national_insurance category %s has a negative rate", letter)
		}
	}

	sl := cfg.StudentLoans
	if !sl.Plan1Threshold.IsPositive() || !sl.Plan2Threshold.IsPositive() || !sl.Plan4Threshold.IsPositive() || !sl.PostgraduateThreshold.IsPositive() {
		add("student_loans thresholds must be positive")
	}
	if sl.UndergraduateRate.IsNegative() || sl.PostgraduateRate.IsNegative() {
		add("student_loans rates must not be negative")
	}

	p := cfg.Pension
	if !p.AutoEnrolmentLowerLimitAnnual.LessThan(p.AutoEnrolmentUpperLimitAnnual) {
		add("pension auto_enrolment_lower_limit_annual must be below auto_enrolment_upper_limit_annual")
	}
	if p.DefaultEmployeePercentage.IsNegative() || p.DefaultEmployerPercentage.IsNegative() {
		add("pension default percentages must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func validateBands(region string, set domain.TaxBandSet, add func(string, ...any)) {
	if len(set.Bands) == 0 {
		add("income_tax %s has no bands", region)
		return
	}
	if set.BasicRateBand < 0 || set.BasicRateBand >= len(set.Bands) {
		add("income_tax %s basic_rate_band %d out of range", region, set.BasicRateBand)
	}
	for i, band := range set.Bands {
		if band.Rate.IsNegative() {
			add("income_tax %s band %q has a negative rate", region, band.Name)
		}
		last := i == len(set.Bands)-1
		if band.UpperLimit.IsZero() {
			if !last {
				add("income_tax %s band %q is open-ended but not the last band", region, band.Name)
			}
			continue
		}
		if i > 0 && !band.UpperLimit.GreaterThan(set.Bands[i-1].UpperLimit) {
			add("income_tax %s band limits must ascend", region)
		}
	}
}
