package main

import (
	"fmt"

	"github.com/rgehrsitz/ukpayroll/internal/calculation"
	"github.com/rgehrsitz/ukpayroll/internal/config"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect tax year configuration",
	}

	show := &cobra.Command{
		Use:   "show [tax-year-file]",
		Short: "Print the built-in tax year configuration, or validate and print a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := calculation.DefaultTaxYearConfig()
			if len(args) == 1 {
				loaded, err := config.NewInputParser().LoadTaxYearConfig(args[0])
				if err != nil {
					return err
				}
				cfg = loaded
			}
			data, err := config.MarshalTaxYearConfig(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	export := &cobra.Command{
		Use:   "export [output-file]",
		Short: "Write the built-in tax year configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := calculation.DefaultTaxYearConfig()
			if err := config.NewInputParser().SaveTaxYearConfig(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tax year %s written to %s\n", cfg.TaxYear, args[0])
			return nil
		},
	}

	cmd.AddCommand(show, export)
	return cmd
}
