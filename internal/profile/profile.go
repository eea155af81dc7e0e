// Package profile analyzes and repairs incomplete data: per-column
// missing-value statistics and configurable fill/drop/impute
// strategies.
package profile

import (
	"fmt"
	"sort"

	"github.com/steveyegge/scour/internal/types"
)

// ColumnMissing describes the missing cells of one column.
type ColumnMissing struct {
	Column string
	Count  int
	// Percent is the column's missing count relative to the table's
	// total cell count, matching how completeness is reported.
	Percent float64
}

// MissingStats returns missing-value statistics for every column that
// has at least one missing cell, sorted by descending percentage and
// then by column name for determinism.
func MissingStats(tbl *types.Table) []ColumnMissing {
	totalCells := len(tbl.Columns) * tbl.Len()
	if totalCells == 0 {
		return nil
	}
	var out []ColumnMissing
	for colIdx, col := range tbl.Columns {
		count := 0
		for _, row := range tbl.Rows {
			if row[colIdx].IsMissing() {
				count++
			}
		}
		if count == 0 {
			continue
		}
		out = append(out, ColumnMissing{
			Column:  col,
			Count:   count,
			Percent: float64(count) / float64(totalCells) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percent != out[j].Percent {
			return out[i].Percent > out[j].Percent
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// Strategy names for HandleMissing.
type Strategy string

const (
	// StrategyDrop removes rows missing any of the target columns.
	StrategyDrop Strategy = "drop"
	// StrategyFill replaces missing cells with a constant value.
	StrategyFill Strategy = "fill"
	// StrategyImputeMean fills numeric columns with the column mean.
	StrategyImputeMean Strategy = "impute-mean"
	// StrategyImputeMedian fills numeric columns with the column median.
	StrategyImputeMedian Strategy = "impute-median"
)

// Options configures one missing-value handling pass.
type Options struct {
	Strategy Strategy
	// Columns restricts the pass; empty means all columns for drop
	// and fill.
	Columns []string
	// FillValue is the constant used by StrategyFill.
	FillValue types.Value
}

// HandleMissing applies the strategy and returns a new table plus any
// warnings. Unknown columns and non-numeric imputation targets warn
// instead of failing; an unknown strategy warns and returns the input
// unchanged.
func HandleMissing(tbl *types.Table, opts Options) (*types.Table, []string) {
	switch opts.Strategy {
	case StrategyDrop:
		return dropMissing(tbl, opts.Columns)
	case StrategyFill:
		return fillMissing(tbl, opts.Columns, opts.FillValue)
	case StrategyImputeMean, StrategyImputeMedian:
		return impute(tbl, opts.Columns, opts.Strategy)
	default:
		return tbl.Clone(), []string{fmt.Sprintf("invalid missing value handling strategy %q", opts.Strategy)}
	}
}

// resolveColumns maps names to indices, warning about unknown names.
func resolveColumns(tbl *types.Table, names []string) ([]int, []string) {
	if len(names) == 0 {
		idxs := make([]int, len(tbl.Columns))
		for i := range idxs {
			idxs[i] = i
		}
		return idxs, nil
	}
	var idxs []int
	var warnings []string
	for _, name := range names {
		idx := tbl.ColumnIndex(name)
		if idx < 0 {
			warnings = append(warnings, fmt.Sprintf("column %q not found", name))
			continue
		}
		idxs = append(idxs, idx)
	}
	if len(idxs) == 0 && len(names) > 0 {
		warnings = append(warnings, "none of the specified columns exist")
	}
	return idxs, warnings
}

func dropMissing(tbl *types.Table, columns []string) (*types.Table, []string) {
	idxs, warnings := resolveColumns(tbl, columns)
	if len(idxs) == 0 {
		return tbl.Clone(), warnings
	}
	keep := make([]int, 0, tbl.Len())
	for i, row := range tbl.Rows {
		complete := true
		for _, idx := range idxs {
			if row[idx].IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	return tbl.Select(keep), warnings
}

func fillMissing(tbl *types.Table, columns []string, fill types.Value) (*types.Table, []string) {
	if fill.IsMissing() {
		return tbl.Clone(), []string{"fill value not provided for fill strategy"}
	}
	idxs, warnings := resolveColumns(tbl, columns)
	out := tbl.Clone()
	for _, row := range out.Rows {
		for _, idx := range idxs {
			if row[idx].IsMissing() {
				row[idx] = fill
			}
		}
	}
	return out, warnings
}

func impute(tbl *types.Table, columns []string, strategy Strategy) (*types.Table, []string) {
	idxs, warnings := resolveColumns(tbl, columns)
	out := tbl.Clone()
	for _, idx := range idxs {
		var nums []float64
		for _, row := range tbl.Rows {
			if n, ok := row[idx].AsNumber(); ok {
				nums = append(nums, n)
			}
		}
		hasNonNumeric := false
		for _, row := range tbl.Rows {
			if !row[idx].IsMissing() {
				if _, ok := row[idx].AsNumber(); !ok {
					hasNonNumeric = true
					break
				}
			}
		}
		if hasNonNumeric || len(nums) == 0 {
			warnings = append(warnings, fmt.Sprintf("cannot impute %s for non-numeric column %q", strategy, tbl.Columns[idx]))
			continue
		}
		fill := types.Number(statistic(nums, strategy))
		for _, row := range out.Rows {
			if row[idx].IsMissing() {
				row[idx] = fill
			}
		}
	}
	return out, warnings
}

func statistic(nums []float64, strategy Strategy) float64 {
	if strategy == StrategyImputeMean {
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return sum / float64(len(nums))
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
