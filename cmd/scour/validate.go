package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/scour/internal/standardize"
	"github.com/steveyegge/scour/internal/validation"
)

var validateRegion string

var validateCmd = &cobra.Command{
	Use:   "validate <input.csv>",
	Short: "Run the rule validator without deduplicating",
	Long: `Run the field-level rule validator over a CSV export and print the
per-rule results. The data is not modified; rows that hard rules would
remove are only counted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		region := cfg.Region
		if validateRegion != "" {
			region = validateRegion
		}

		tbl, err := loadTable(args[0])
		if err != nil {
			return err
		}
		tbl, err = standardize.Columns(tbl)
		if err != nil {
			return err
		}
		tbl = standardize.BlankToMissing(tbl)

		validator := validation.New(validation.Config{
			Region:         region,
			PostalRegion:   cfg.PostalRegion,
			RequiredFields: cfg.RequiredFields,
			Logger:         slog.Default(),
		})
		_, report, err := validator.Run(tbl)
		if err != nil {
			return err
		}

		printValidationReport(report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateRegion, "region", "", "Phone validation region (default US)")
}

func printValidationReport(report *validation.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("%s Validation %s\n\n", green("✓"), report.Status)
	fmt.Printf("  Rows in: %s\n", cyan(fmt.Sprintf("%d", report.InitialCount)))
	fmt.Printf("  Rows passing: %s\n", cyan(fmt.Sprintf("%d", report.FinalCount)))
	fmt.Printf("  Rows failing: %s\n", cyan(fmt.Sprintf("%d", report.RemovedRows)))

	for _, msg := range report.Errors {
		fmt.Printf("  %s %s\n", gray("-"), msg)
	}
	if len(report.Warnings) > 0 {
		fmt.Printf("\n%s Warnings:\n", yellow("⚠"))
		for _, w := range report.Warnings {
			fmt.Printf("  - %s\n", gray(w))
		}
	}
}
