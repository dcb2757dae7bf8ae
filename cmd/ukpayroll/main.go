package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/ukpayroll/internal/calculation"
	"github.com/rgehrsitz/ukpayroll/internal/config"
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/events"
	"github.com/rgehrsitz/ukpayroll/internal/ledger"
	"github.com/rgehrsitz/ukpayroll/internal/output"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ukpayroll %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:          "ukpayroll",
	Short:        "UK payroll calculation engine",
	Long:         "Calculates PAYE income tax, National Insurance, student loan and pension deductions for UK employees",
	SilenceUsage: true,
}

// newEngine builds an engine wired to the CLI logger when --debug is set
func newEngine(cmd *cobra.Command) *calculation.PayrollEngine {
	engine := calculation.NewPayrollEngine()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

// overrideTaxYear returns the --tax-year-config file when one is given
func overrideTaxYear(cmd *cobra.Command) (*domain.TaxYearConfiguration, error) {
	path, _ := cmd.Flags().GetString("tax-year-config")
	if path == "" {
		return nil, nil
	}
	return config.NewInputParser().LoadTaxYearConfig(path)
}

func writeResult(cmd *cobra.Command, res *payrun.Result) error {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown format %q, available: %s", format, formatList())
	}
	if save, _ := cmd.Flags().GetBool("save"); save {
		path, err := output.WriteFormatted(f, res, extension(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	data, err := f.Format(res)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// formatList names the formatters and the aliases they also answer to
func formatList() string {
	return fmt.Sprintf("%s; aliases: %s",
		strings.Join(output.AvailableFormatterNames(), ", "),
		strings.Join(output.AvailableFormatAliases(), ", "))
}

func extension(formatter string) string {
	switch formatter {
	case "json", "html":
		return formatter
	case "csv", "detailed-csv":
		return "csv"
	}
	return "txt"
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Calculate one employee's pay for a single period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := config.NewInputParser().LoadCalculationInput(args[0])
		if err != nil {
			return err
		}
		cfg, err := overrideTaxYear(cmd)
		if err != nil {
			return err
		}
		if cfg != nil {
			input.TaxYearConfig = cfg
		}

		engine := newEngine(cmd)
		validation := engine.ValidateInput(*input)
		var result *domain.PayrollCalculationResult
		if validation.Valid {
			result = engine.CalculatePayroll(*input)
		}
		if err := writeResult(cmd, payrun.SingleResult(*input, validation, result)); err != nil {
			return err
		}
		if !validation.Valid {
			return fmt.Errorf("%s failed validation: %s", args[0], strings.Join(validation.Errors, "; "))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a calculation input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := config.NewInputParser().LoadCalculationInput(args[0])
		if err != nil {
			return err
		}
		validation := newEngine(cmd).ValidateInput(*input)
		out := cmd.OutOrStdout()
		for _, w := range validation.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if !validation.Valid {
			for _, e := range validation.Errors {
				fmt.Fprintf(out, "error: %s\n", e)
			}
			return fmt.Errorf("%s failed validation with %d error(s)", args[0], len(validation.Errors))
		}
		fmt.Fprintf(out, "Input file %s is valid\n", args[0])
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run [payrun-file]",
	Short: "Execute a pay run for every employee in the file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := config.NewInputParser().LoadPayRun(args[0])
		if err != nil {
			return err
		}
		cfg, err := overrideTaxYear(cmd)
		if err != nil {
			return err
		}
		if cfg != nil {
			req.TaxYearConfig = cfg
		}

		runner := payrun.NewRunner(newEngine(cmd))
		runner.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			runner.Logger = simpleCLILogger{}
		}
		if dir, _ := cmd.Flags().GetString("ledger-dir"); dir != "" {
			store, err := ledger.NewFileStore(dir)
			if err != nil {
				return err
			}
			runner.Store = store
		}
		if brokers, _ := cmd.Flags().GetStringSlice("kafka-brokers"); len(brokers) > 0 {
			topic, _ := cmd.Flags().GetString("kafka-topic")
			publisher := events.NewKafkaPublisher(brokers, topic)
			defer publisher.Close()
			runner.Publisher = publisher
		}

		res, runErr := runner.Run(cmd.Context(), *req)
		if res == nil {
			return runErr
		}
		if err := writeResult(cmd, res); err != nil {
			return err
		}
		if runErr != nil {
			return runErr
		}
		return res.Err()
	},
}

func init() {
	formats := formatList()

	calculateCmd.Flags().StringP("format", "f", "console", "Output format ("+formats+")")
	calculateCmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	calculateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	calculateCmd.Flags().String("tax-year-config", "", "Tax year configuration file overriding the built-in 2024/25 rates")

	validateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	runCmd.Flags().StringP("format", "f", "console-lite", "Output format ("+formats+")")
	runCmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	runCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	runCmd.Flags().String("tax-year-config", "", "Tax year configuration file overriding the built-in 2024/25 rates")
	runCmd.Flags().String("ledger-dir", "", "Directory holding year-to-date ledger files (in-memory when empty)")
	runCmd.Flags().Int("concurrency", payrun.DefaultConcurrency, "Employees calculated in parallel")
	runCmd.Flags().StringSlice("kafka-brokers", nil, "Kafka brokers for payroll.calculated events")
	runCmd.Flags().String("kafka-topic", events.PayrollCalculatedTopic, "Kafka topic for payroll.calculated events")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
