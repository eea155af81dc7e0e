// Package evaluate scores deduplication quality: precision/recall/F1
// of predicted duplicate pairs against known ground truth, and
// completeness improvement across a cleaning run.
package evaluate

import "github.com/steveyegge/scour/internal/types"

// PairMetrics are standard retrieval metrics over duplicate pairs.
type PairMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// DuplicateMetrics compares predicted duplicate pair keys against
// ground truth. Keys are opaque; callers typically use the ordered
// (value1, value2) pair rendered to a string. Empty denominators score
// zero rather than erroring.
func DuplicateMetrics(groundTruth, predicted []string) PairMetrics {
	truth := toSet(groundTruth)
	pred := toSet(predicted)

	tp := 0
	for k := range pred {
		if _, ok := truth[k]; ok {
			tp++
		}
	}
	fp := len(pred) - tp
	fn := len(truth) - tp

	var m PairMetrics
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Completeness is the non-missing cell ratio of the checked columns,
// before and after a cleaning run.
type Completeness struct {
	Before      float64 `json:"completeness_before"`
	After       float64 `json:"completeness_after"`
	Improvement float64 `json:"improvement"`
}

// CompletenessImprovement measures how much a cleaning run improved
// completeness over the given columns. Columns absent from a table are
// ignored for that table.
func CompletenessImprovement(before, after *types.Table, columns []string) Completeness {
	c := Completeness{
		Before: completeness(before, columns),
		After:  completeness(after, columns),
	}
	c.Improvement = c.After - c.Before
	return c
}

func completeness(tbl *types.Table, columns []string) float64 {
	totalCells := len(tbl.Columns) * tbl.Len()
	if totalCells == 0 {
		return 1.0
	}
	missing := 0
	for _, col := range columns {
		idx := tbl.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		for _, row := range tbl.Rows {
			if row[idx].IsMissing() {
				missing++
			}
		}
	}
	return 1 - float64(missing)/float64(totalCells)
}
