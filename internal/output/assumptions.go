package output

// DefaultAssumptions lists the calculation conventions rendered in detailed outputs
var DefaultAssumptions = []string{
	"PAYE is cumulative unless the tax code carries W1, M1 or X",
	"Taxable pay is truncated to the pound and tax to the penny",
	"NI thresholds are pro-rated per period and rounded to the pound",
	"Student loan and pension thresholds are pro-rated per period and rounded to the penny",
	"Tax refunds through payroll are not modelled; negative tax is floored at zero",
}
