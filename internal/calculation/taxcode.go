package calculation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/shopspring/decimal"
)

// Tax regions selected by the tax code prefix
const (
	RegionEngland  = "england"
	RegionScotland = "scotland"
	RegionWales    = "wales"
)

// TaxCodeKind classifies how a tax code turns pay into taxable pay
type TaxCodeKind int

const (
	// TaxCodeAllowance is a numbered code with a tax-free allowance (1257L, 0T)
	TaxCodeAllowance TaxCodeKind = iota
	// TaxCodeK adds the coded amount to taxable pay
	TaxCodeK
	// TaxCodeBasicRate taxes all pay at the basic rate
	TaxCodeBasicRate
	// TaxCodeHigherRate taxes all pay at a single rate above basic (D0, D1...)
	TaxCodeHigherRate
	// TaxCodeNoTax means no tax is deducted
	TaxCodeNoTax
)

var taxCodePattern = regexp.MustCompile(`^([SC])?(?:(\d{1,4})([LMNT])|K(\d{1,4})|BR|D([0-3])|NT)(W1|M1|X)?$`)

var ten = decimal.NewFromInt(10)

// TaxCode is a parsed HMRC tax code
type TaxCode struct {
	Code   string
	Region string
	Kind   TaxCodeKind

	// Allowance is the annual tax-free pay for TaxCodeAllowance codes
	Allowance decimal.Decimal
	// KAddition is the annual amount added to pay for K codes
	KAddition decimal.Decimal
	// DBand is n for a Dn code
	DBand int

	// NonCumulative is set by the W1, M1 or X suffix
	NonCumulative bool
}

func normalizeTaxCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// ParseTaxCode parses an HMRC tax code such as 1257L, S1257L, C1257L W1, K475, BR or D0
func ParseTaxCode(code string) (TaxCode, error) {
	normalized := normalizeTaxCode(code)
	if normalized == "" {
		return TaxCode{}, fmt.Errorf("tax code is empty")
	}
	m := taxCodePattern.FindStringSubmatch(normalized)
	if m == nil {
		return TaxCode{}, fmt.Errorf("tax code %q is not a recognised format", code)
	}

	tc := TaxCode{
		Code:          normalized,
		Region:        RegionEngland,
		Allowance:     decimal.Zero,
		KAddition:     decimal.Zero,
		NonCumulative: m[6] != "",
	}
	switch m[1] {
	case "S":
		tc.Region = RegionScotland
	case "C":
		tc.Region = RegionWales
	}

	body := strings.TrimPrefix(normalized, m[1])
	body = strings.TrimSuffix(body, m[6])

	switch {
	case m[2] != "":
		n, _ := strconv.Atoi(m[2])
		tc.Kind = TaxCodeAllowance
		tc.Allowance = decimal.NewFromInt(int64(n)).Mul(ten)
	case m[4] != "":
		n, _ := strconv.Atoi(m[4])
		tc.Kind = TaxCodeK
		tc.KAddition = decimal.NewFromInt(int64(n)).Mul(ten)
	case m[5] != "":
		n, _ := strconv.Atoi(m[5])
		if n > 1 && tc.Region != RegionScotland {
			return TaxCode{}, fmt.Errorf("tax code %q: D%d is only valid for Scottish taxpayers", code, n)
		}
		tc.Kind = TaxCodeHigherRate
		tc.DBand = n
	case body == "BR":
		tc.Kind = TaxCodeBasicRate
	case body == "NT":
		tc.Kind = TaxCodeNoTax
	}
	return tc, nil
}

// ValidateTaxCode checks that code is a recognised HMRC tax code format
func ValidateTaxCode(code string) domain.FormatValidation {
	if strings.TrimSpace(code) == "" {
		return domain.FormatValidation{Valid: false, Error: "tax code is required"}
	}
	if _, err := ParseTaxCode(code); err != nil {
		return domain.FormatValidation{Valid: false, Error: err.Error()}
	}
	return domain.FormatValidation{Valid: true}
}

// bandSet returns the regional band set for the code
func (tc TaxCode) bandSet(cfg *domain.TaxYearConfiguration) domain.TaxBandSet {
	switch tc.Region {
	case RegionScotland:
		return cfg.IncomeTax.Scotland
	case RegionWales:
		return cfg.IncomeTax.Wales
	}
	return cfg.IncomeTax.England
}
