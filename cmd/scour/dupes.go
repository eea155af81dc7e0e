package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/scour/internal/grouping"
	"github.com/steveyegge/scour/internal/standardize"
	"github.com/steveyegge/scour/internal/types"
)

var (
	dupesColumn    string
	dupesMethod    string
	dupesThreshold float64
	dupesTopN      int
	dupesColumns   []string
)

var dupesCmd = &cobra.Command{
	Use:   "dupes <input.csv>",
	Short: "Discover duplicate candidates without modifying the data",
	Long: `Discover duplicate candidates in a CSV export and print them,
leaving the data untouched.

Methods:
  fuzzy     Pairwise edit-distance matching over one column's distinct
            values (threshold on the 0-100 ratio scale, default 88).
  semantic  TF-IDF cosine matching over one column's distinct values
            (threshold in 0-1, default 0.9).
  cluster   Joint text clustering over several columns (threshold in
            0-1, default 0.8).

Examples:
  scour dupes crm.csv --column name
  scour dupes crm.csv --column email --method fuzzy --threshold 90
  scour dupes crm.csv --method semantic --column company
  scour dupes crm.csv --method cluster --columns name,email,phone`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
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

		switch dupesMethod {
		case "fuzzy":
			threshold := int(dupesThreshold)
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.FuzzyThreshold
			}
			pairs := grouping.FuzzyPairs(columnValues(tbl, dupesColumn), threshold, dupesTopN, slog.Default())
			printPairs(pairs, "%.0f")
		case "semantic":
			threshold := dupesThreshold
			if !cmd.Flags().Changed("threshold") {
				threshold = 0.9
			}
			pairs := grouping.SemanticPairs(columnValues(tbl, dupesColumn), threshold)
			printPairs(pairs, "%.3f")
		case "cluster":
			threshold := dupesThreshold
			if !cmd.Flags().Changed("threshold") {
				threshold = 0.8
			}
			cols := dupesColumns
			if len(cols) == 0 {
				cols = []string{"name", "email", "phone"}
			}
			groups, err := grouping.ClusterGroups(tbl, cols, threshold)
			if err != nil {
				return err
			}
			printClusters(tbl, cols, groups)
		default:
			return fmt.Errorf("unknown method %q (want fuzzy, semantic, or cluster)", dupesMethod)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dupesCmd)
	dupesCmd.Flags().StringVar(&dupesColumn, "column", "name", "Column to scan (fuzzy and semantic methods)")
	dupesCmd.Flags().StringVar(&dupesMethod, "method", "fuzzy", "Discovery method: fuzzy, semantic, or cluster")
	dupesCmd.Flags().Float64Var(&dupesThreshold, "threshold", 0, "Similarity threshold (method-specific scale)")
	dupesCmd.Flags().IntVar(&dupesTopN, "top", 5, "Most-similar candidates considered per value (fuzzy method)")
	dupesCmd.Flags().StringSliceVar(&dupesColumns, "columns", nil, "Columns to cluster jointly (cluster method)")
}

func columnValues(tbl *types.Table, column string) []string {
	idx := tbl.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	values := make([]string, 0, tbl.Len())
	for _, row := range tbl.Rows {
		if !row[idx].IsMissing() {
			values = append(values, row[idx].String())
		}
	}
	return values
}

func printPairs(pairs []grouping.Pair, scoreFormat string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	if len(pairs) == 0 {
		fmt.Println("No duplicate candidates found.")
		return
	}
	fmt.Printf("%s duplicate candidate pair(s):\n\n", cyan(fmt.Sprintf("%d", len(pairs))))
	for _, p := range pairs {
		fmt.Printf("  %s  %s  %s\n", p.A, gray("<->"), p.B)
		fmt.Printf("    similarity: %s\n", cyan(fmt.Sprintf(scoreFormat, p.Score)))
	}
}

func printClusters(tbl *types.Table, cols []string, groups []types.CandidateGroup) {
	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	if len(groups) == 0 {
		fmt.Println("No duplicate clusters found.")
		return
	}
	fmt.Printf("%s duplicate cluster(s):\n\n", cyan(fmt.Sprintf("%d", len(groups))))
	for i, g := range groups {
		fmt.Printf("  Cluster %d %s:\n", i+1, gray(fmt.Sprintf("(score %.3f)", g.Score)))
		for _, row := range g.Rows {
			parts := make([]string, 0, len(cols))
			for _, c := range cols {
				parts = append(parts, tbl.Value(row, c).String())
			}
			fmt.Printf("    row %d: %s\n", row, strings.Join(parts, " | "))
		}
	}
}
