package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/scour/internal/evaluate"
	"github.com/steveyegge/scour/internal/standardize"
	"github.com/steveyegge/scour/internal/types"
)

var (
	evalTruth     string
	evalPredicted string
	evalColumns   []string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <before.csv> <after.csv>",
	Short: "Score a cleaning run against the original data",
	Long: `Score a cleaning run: completeness improvement between the original
and cleaned tables, and optionally precision/recall/F1 of discovered
duplicate pairs against a ground-truth pair list.

Pair files are CSVs with two columns per row (the two values of a
pair); pair order within a row does not matter.

Examples:
  scour evaluate crm.csv crm_cleaned.csv
  scour evaluate crm.csv crm_cleaned.csv --columns name,email,phone
  scour evaluate crm.csv crm_cleaned.csv --truth truth.csv --predicted found.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := loadNormalized(args[0])
		if err != nil {
			return err
		}
		after, err := loadNormalized(args[1])
		if err != nil {
			return err
		}

		cols := evalColumns
		if len(cols) == 0 {
			cols = before.Columns
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		c := evaluate.CompletenessImprovement(before, after, cols)
		fmt.Printf("Completeness before: %s\n", cyan(fmt.Sprintf("%.1f%%", c.Before*100)))
		fmt.Printf("Completeness after: %s\n", cyan(fmt.Sprintf("%.1f%%", c.After*100)))
		fmt.Printf("Improvement: %s\n", cyan(fmt.Sprintf("%+.1f%%", c.Improvement*100)))

		if evalTruth == "" && evalPredicted == "" {
			return nil
		}
		if evalTruth == "" || evalPredicted == "" {
			return fmt.Errorf("--truth and --predicted must be given together")
		}
		truth, err := loadPairKeys(evalTruth)
		if err != nil {
			return err
		}
		predicted, err := loadPairKeys(evalPredicted)
		if err != nil {
			return err
		}
		m := evaluate.DuplicateMetrics(truth, predicted)
		fmt.Printf("\nDuplicate detection vs ground truth:\n")
		fmt.Printf("  Precision: %s\n", cyan(fmt.Sprintf("%.3f", m.Precision)))
		fmt.Printf("  Recall: %s\n", cyan(fmt.Sprintf("%.3f", m.Recall)))
		fmt.Printf("  F1: %s\n", cyan(fmt.Sprintf("%.3f", m.F1)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evalTruth, "truth", "", "Ground-truth duplicate pair CSV")
	evaluateCmd.Flags().StringVar(&evalPredicted, "predicted", "", "Predicted duplicate pair CSV")
	evaluateCmd.Flags().StringSliceVar(&evalColumns, "columns", nil, "Columns scored for completeness (default: all)")
}

func loadNormalized(path string) (*types.Table, error) {
	tbl, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	tbl, err = standardize.Columns(tbl)
	if err != nil {
		return nil, err
	}
	return standardize.BlankToMissing(tbl), nil
}

// loadPairKeys reads a two-column pair CSV into canonical pair keys.
// The file is headerless; each row's values are ordered before keying
// so (a,b) and (b,a) compare equal.
func loadPairKeys(path string) ([]string, error) {
	tbl, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, tbl.Len()+1)
	appendKey := func(a, b string) {
		if b < a {
			a, b = b, a
		}
		keys = append(keys, a+"|"+b)
	}
	// loadTable consumed the first row as a header; it is a pair too.
	if len(tbl.Columns) >= 2 {
		appendKey(tbl.Columns[0], tbl.Columns[1])
	}
	for _, row := range tbl.Rows {
		if len(row) < 2 || row[0].IsMissing() || row[1].IsMissing() {
			continue
		}
		appendKey(row[0].String(), row[1].String())
	}
	return keys, nil
}
