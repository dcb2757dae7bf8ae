package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/rgehrsitz/ukpayroll/internal/money"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
)

// HTMLFormatter produces a standalone HTML pay run report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/payrun.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("payrun").Funcs(template.FuncMap{
	"curr": money.Format,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *payrun.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no pay run result to format")
	}
	var buf bytes.Buffer
	data := struct {
		*payrun.Result
		Assumptions []string
	}{result, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
