package calculation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/shopspring/decimal"
)

var niNumberPattern = regexp.MustCompile(`^[A-CEGHJ-PR-TW-Z][A-CEGHJ-NPR-TW-Z][0-9]{6}[A-D]$`)

// ValidateNINumber checks a National Insurance number, ignoring case and embedded whitespace
func ValidateNINumber(number string) domain.FormatValidation {
	n := strings.ToUpper(strings.Join(strings.Fields(number), ""))
	if n == "" {
		return domain.FormatValidation{Valid: false, Error: "National Insurance number is required"}
	}
	if !niNumberPattern.MatchString(n) {
		return domain.FormatValidation{Valid: false, Error: fmt.Sprintf("invalid National Insurance number format %q", number)}
	}
	return domain.FormatValidation{Valid: true}
}

// ValidateInput checks a calculation input before it is passed to CalculatePayroll.
// Errors block the calculation; warnings describe defaults that will be applied.
func ValidateInput(input domain.PayrollCalculationInput) domain.ValidationResult {
	var errs, warnings []string
	emp := input.Employee

	if strings.TrimSpace(emp.ID) == "" {
		errs = append(errs, "employee ID is required")
	}

	if v := ValidateNINumber(emp.NationalInsuranceNumber); !v.Valid {
		errs = append(errs, v.Error)
	}

	if strings.TrimSpace(emp.TaxCode) == "" {
		warnings = append(warnings, "tax code not provided, defaulting to "+DefaultTaxCode)
	} else if v := ValidateTaxCode(emp.TaxCode); !v.Valid {
		errs = append(errs, "invalid tax code: "+v.Error)
	}

	if strings.TrimSpace(emp.NICategory) == "" {
		warnings = append(warnings, "NI category not provided, defaulting to Category "+DefaultNICategory)
	} else if v := ValidateNICategory(emp.NICategory); !v.Valid {
		errs = append(errs, v.Error)
	}

	if emp.StudentLoanPlan != "" {
		if v := ValidateStudentLoanPlan(string(emp.StudentLoanPlan)); !v.Valid {
			errs = append(errs, v.Error)
		}
	}

	cfg := input.TaxYearConfig
	if cfg == nil {
		cfg = DefaultTaxYearConfig()
	}
	if emp.IsPensionEnrolled() && emp.PensionContributionPercentage != nil {
		pct := *emp.PensionContributionPercentage
		if v := ValidatePensionContribution(pct); !v.Valid {
			errs = append(errs, v.Error)
		} else if minimum := cfg.Pension.MinimumTotalPercentage.Sub(cfg.Pension.MinimumEmployerPercentage); pct.LessThan(minimum) {
			warnings = append(warnings, fmt.Sprintf("employee pension contribution %s%% is below the statutory minimum of %s%%", pct.String(), minimum.String()))
		}
	}
	if emp.IsPensionEnrolled() && emp.EmployerPensionContributionPercentage != nil {
		if v := ValidatePensionContribution(*emp.EmployerPensionContributionPercentage); !v.Valid {
			errs = append(errs, "employer "+v.Error)
		}
	}

	if input.GrossPay.IsNegative() {
		errs = append(errs, "gross pay cannot be negative")
	}
	for _, c := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"bonuses", input.Bonuses},
		{"commission", input.Commission},
		{"tronc payment", input.TroncPayment},
		{"holiday pay", input.HolidayPay},
		{"other payments", input.OtherPayments},
	} {
		if c.value.IsNegative() {
			errs = append(errs, c.name+" cannot be negative")
		}
	}

	if !input.PeriodType.Valid() {
		errs = append(errs, fmt.Sprintf("unsupported period type %q", input.PeriodType))
	}
	if input.PeriodNumber < 1 {
		errs = append(errs, "period number must be at least 1")
	} else if limit := input.PeriodType.MaxPeriodNumber(); limit > 0 && input.PeriodNumber > limit {
		errs = append(errs, fmt.Sprintf("period number cannot exceed %d for %s periods", limit, input.PeriodType))
	}

	if !input.PeriodStartDate.IsZero() && !input.PeriodEndDate.IsZero() && input.PeriodEndDate.Before(input.PeriodStartDate) {
		errs = append(errs, "period end date cannot be before period start date")
	}
	if !input.PeriodEndDate.IsZero() && !cfg.Covers(input.PeriodEndDate) {
		warnings = append(warnings, fmt.Sprintf("period end date %s falls outside tax year %s", input.PeriodEndDate.Format("2006-01-02"), cfg.TaxYear))
	}

	return domain.ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   nonNil(errs),
		Warnings: nonNil(warnings),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
