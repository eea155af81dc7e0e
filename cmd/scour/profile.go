package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/scour/internal/profile"
	"github.com/steveyegge/scour/internal/standardize"
	"github.com/steveyegge/scour/internal/types"
)

var (
	profileStrategy string
	profileColumns  []string
	profileFill     string
	profileOut      string
)

var profileCmd = &cobra.Command{
	Use:   "profile <input.csv>",
	Short: "Report missing-value statistics, optionally repairing them",
	Long: `Report per-column missing-value statistics for a CSV export.

With --strategy, also repair the missing values and write the result:
  drop           Remove rows missing any of the target columns
  fill           Replace missing cells with --fill's value
  impute-mean    Fill numeric columns with the column mean
  impute-median  Fill numeric columns with the column median

Examples:
  scour profile crm.csv
  scour profile crm.csv --strategy drop --columns email
  scour profile crm.csv --strategy fill --columns segment --fill Unknown --out repaired.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(args[0])
		if err != nil {
			return err
		}
		tbl, err = standardize.Columns(tbl)
		if err != nil {
			return err
		}
		tbl = standardize.BlankToMissing(tbl)

		printMissingStats(tbl)

		if profileStrategy == "" {
			return nil
		}

		opts := profile.Options{
			Strategy: profile.Strategy(profileStrategy),
			Columns:  profileColumns,
		}
		if profileFill != "" {
			opts.FillValue = types.String(profileFill)
		}
		repaired, warnings := profile.HandleMissing(tbl, opts)
		for _, w := range warnings {
			fmt.Printf("%s %s\n", color.YellowString("⚠"), w)
		}

		out := profileOut
		if out == "" {
			out = outputPath(args[0])
		}
		if err := saveTable(repaired, out); err != nil {
			return err
		}
		fmt.Printf("\nRepaired data written to %s (%d rows)\n", out, repaired.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVar(&profileStrategy, "strategy", "", "Repair strategy: drop, fill, impute-mean, or impute-median")
	profileCmd.Flags().StringSliceVar(&profileColumns, "columns", nil, "Columns to repair (default: all)")
	profileCmd.Flags().StringVar(&profileFill, "fill", "", "Constant used by the fill strategy")
	profileCmd.Flags().StringVar(&profileOut, "out", "", "Output CSV path for the repaired data (default: <input>_cleaned.csv)")
}

func printMissingStats(tbl *types.Table) {
	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	stats := profile.MissingStats(tbl)
	if len(stats) == 0 {
		fmt.Println("No missing values.")
		return
	}
	fmt.Printf("Missing values in %s of %d columns:\n\n", cyan(fmt.Sprintf("%d", len(stats))), len(tbl.Columns))
	for _, s := range stats {
		fmt.Printf("  %s: %s %s\n", s.Column,
			cyan(fmt.Sprintf("%d", s.Count)),
			gray(fmt.Sprintf("(%.1f%% of cells)", s.Percent)))
	}
}
