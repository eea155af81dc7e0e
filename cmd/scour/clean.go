package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/scour/internal/pipeline"
)

var (
	cleanOut         string
	cleanReportPath  string
	cleanMergePolicy string
	cleanRegion      string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <input.csv>",
	Short: "Run the full cleaning pipeline over a CSV export",
	Long: `Run the full cleaning pipeline: normalize columns, remove exact and
fuzzy duplicates, standardize field formats, validate, and polish.

Examples:
  scour clean crm.csv                          # Clean, write crm_cleaned.csv
  scour clean crm.csv --out tidy.csv           # Choose the output path
  scour clean crm.csv --merge-policy concatenate
  scour clean crm.csv --report report.json     # Also write the run report`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		if cleanMergePolicy != "" {
			cfg.MergePolicy = cleanMergePolicy
		}
		if cleanRegion != "" {
			cfg.Region = cleanRegion
		}

		tbl, err := loadTable(args[0])
		if err != nil {
			return err
		}

		cleaner := pipeline.New(pipeline.Config{
			ValidSegments:  cfg.ValidSegments,
			RequiredFields: cfg.RequiredFields,
			MergePolicy:    cfg.MergePolicy,
			Region:         cfg.Region,
			PostalRegion:   cfg.PostalRegion,
			Logger:         slog.Default(),
		})
		cleaned, report := cleaner.Clean(tbl)

		if cleanReportPath != "" {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			if err := os.WriteFile(cleanReportPath, data, 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
		}

		printCleanReport(report)

		if report.Status != pipeline.StatusSuccess {
			return fmt.Errorf("cleaning failed: %s", report.Error)
		}

		out := cleanOut
		if out == "" {
			out = outputPath(args[0])
		}
		if err := saveTable(cleaned, out); err != nil {
			return err
		}
		fmt.Printf("\nCleaned data written to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&cleanOut, "out", "", "Output CSV path (default: <input>_cleaned.csv)")
	cleanCmd.Flags().StringVar(&cleanReportPath, "report", "", "Write the run report as JSON to this path")
	cleanCmd.Flags().StringVar(&cleanMergePolicy, "merge-policy", "", "Resolve fuzzy duplicate groups under this policy instead of keeping the most complete record")
	cleanCmd.Flags().StringVar(&cleanRegion, "region", "", "Phone validation region (default US)")
}

func outputPath(in string) string {
	ext := ".csv"
	base := in
	if n := len(in) - len(ext); n > 0 && in[n:] == ext {
		base = in[:n]
	}
	return base + "_cleaned" + ext
}

func printCleanReport(report *pipeline.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	if report.Status != pipeline.StatusSuccess {
		fmt.Printf("%s Cleaning failed: %s\n", red("✗"), report.Error)
		return
	}

	fmt.Printf("%s Cleaning complete!\n\n", green("✓"))
	fmt.Printf("  Rows in: %s\n", cyan(fmt.Sprintf("%d", report.OriginalCount)))
	fmt.Printf("  Rows out: %s\n", cyan(fmt.Sprintf("%d", report.CleanedCount)))
	fmt.Printf("  Removed: %s\n", cyan(fmt.Sprintf("%d", report.RowsRemoved)))
	fmt.Printf("    Exact duplicates: %s\n", gray(fmt.Sprintf("%d", report.ExactDuplicatesRemoved)))
	fmt.Printf("    Fuzzy duplicates: %s\n", gray(fmt.Sprintf("%d", report.FuzzyDuplicatesRemoved)))
	fmt.Printf("    Invalid emails: %s\n", gray(fmt.Sprintf("%d", report.InvalidEmailsRemoved)))
	fmt.Printf("    Invalid phones: %s\n", gray(fmt.Sprintf("%d", report.InvalidPhonesRemoved)))
	fmt.Printf("    Invalid segments: %s\n", gray(fmt.Sprintf("%d", report.InvalidSegmentsRemoved)))
	fmt.Printf("    Invalid postal codes: %s\n", gray(fmt.Sprintf("%d", report.InvalidPostalCodesRemoved)))

	if len(report.MissingRequired) > 0 {
		fields := make([]string, 0, len(report.MissingRequired))
		for f := range report.MissingRequired {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		fmt.Printf("    Missing required fields:\n")
		for _, f := range fields {
			fmt.Printf("      %s: %s\n", f, gray(fmt.Sprintf("%d", report.MissingRequired[f])))
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Printf("\n%s Warnings:\n", yellow("⚠"))
		for _, w := range report.Warnings {
			fmt.Printf("  - %s\n", gray(w))
		}
	}
}
