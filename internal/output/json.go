package output

import (
	"encoding/json"

	"github.com/rgehrsitz/ukpayroll/internal/payrun"
)

// JSONFormatter renders the full result as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *payrun.Result) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
