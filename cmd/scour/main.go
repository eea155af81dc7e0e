// Command scour cleans tabular CRM exports: it deduplicates, validates,
// and normalizes records, and reports what it removed and why.
//
// All file I/O lives here in the command layer; the engine packages
// under internal/ only ever see in-memory tables.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scour",
	Short: "Deduplicate, validate, and normalize CRM record exports",
	Long: `scour ingests a CSV of customer-relationship records and produces a
deduplicated, validated, normalized dataset plus a per-run report.

Duplicate handling combines exact-key blocking, composite-key fuzzy
bucketing, pairwise fuzzy discovery, and text clustering. Validation
applies field-level business rules (email, phone, required fields,
postal codes, date and range sanity).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to .scour.yaml (default: ./.scour.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
