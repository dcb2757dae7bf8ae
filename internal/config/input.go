package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of calculation input, pay-run and tax year files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// calculationFile is a single-employee input file. The tax year may be inlined or
// referenced by path relative to the file.
type calculationFile struct {
	domain.PayrollCalculationInput `yaml:",inline"`
	TaxYearConfigFile              string `yaml:"tax_year_config_file,omitempty"`
}

// payRunFile is a pay-run request file
type payRunFile struct {
	payrun.Request    `yaml:",inline"`
	TaxYearConfigFile string `yaml:"tax_year_config_file,omitempty"`
}

// LoadCalculationInput loads one employee's calculation input from a YAML or JSON file
func (ip *InputParser) LoadCalculationInput(filename string) (*domain.PayrollCalculationInput, error) {
	var file calculationFile
	if err := readYAML(filename, &file); err != nil {
		return nil, err
	}
	input := file.PayrollCalculationInput
	if input.PeriodType != "" {
		pt, err := domain.ParsePeriodType(string(input.PeriodType))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		input.PeriodType = pt
	}
	if file.TaxYearConfigFile != "" {
		cfg, err := ip.LoadTaxYearConfig(resolvePath(filename, file.TaxYearConfigFile))
		if err != nil {
			return nil, err
		}
		input.TaxYearConfig = cfg
	} else if input.TaxYearConfig != nil {
		if err := ValidateTaxYearConfig(input.TaxYearConfig); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}
	return &input, nil
}

// LoadPayRun loads a pay-run request from a YAML or JSON file
func (ip *InputParser) LoadPayRun(filename string) (*payrun.Request, error) {
	var file payRunFile
	if err := readYAML(filename, &file); err != nil {
		return nil, err
	}
	req := file.Request
	pt, err := domain.ParsePeriodType(string(req.PeriodType))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	req.PeriodType = pt
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%s: pay run has no employees", filename)
	}
	if file.TaxYearConfigFile != "" {
		cfg, err := ip.LoadTaxYearConfig(resolvePath(filename, file.TaxYearConfigFile))
		if err != nil {
			return nil, err
		}
		req.TaxYearConfig = cfg
	} else if req.TaxYearConfig != nil {
		if err := ValidateTaxYearConfig(req.TaxYearConfig); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}
	return &req, nil
}

// LoadTaxYearConfig loads and validates a tax year configuration file
func (ip *InputParser) LoadTaxYearConfig(filename string) (*domain.TaxYearConfiguration, error) {
	var cfg domain.TaxYearConfiguration
	if err := readYAML(filename, &cfg); err != nil {
		return nil, err
	}
	if err := ValidateTaxYearConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &cfg, nil
}

// SaveTaxYearConfig writes a tax year configuration as YAML
func (ip *InputParser) SaveTaxYearConfig(filename string, cfg *domain.TaxYearConfiguration) error {
	data, err := MarshalTaxYearConfig(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// MarshalTaxYearConfig renders a tax year configuration as YAML
func MarshalTaxYearConfig(cfg *domain.TaxYearConfiguration) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tax year config: %w", err)
	}
	return data, nil
}

// readYAML decodes a file into out. JSON is a subset of YAML so .json files load too.
func readYAML(filename string, out any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return nil
}

func resolvePath(base, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(base), ref)
}
