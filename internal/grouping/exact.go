package grouping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/scour/internal/similarity"
	"github.com/steveyegge/scour/internal/types"
)

// keySep separates key fragments inside composite keys. An unprintable
// separator keeps "ab"+"c" distinct from "a"+"bc".
const keySep = "\x1f"

// ExactGroups partitions the table by the normalized projection onto
// the given key columns. Records with identical projections share a
// group. Every row lands in exactly one group; groups are ordered by
// first occurrence and member rows ascend, so output is stable across
// runs and membership is independent of input row order.
//
// An empty key list projects onto all columns, which is how the
// pipeline removes full-row exact duplicates. A named key column that
// does not exist is an error: the projection would silently change
// meaning otherwise.
func ExactGroups(tbl *types.Table, keys []string) ([]types.CandidateGroup, error) {
	if len(keys) == 0 {
		keys = tbl.Columns
	}
	idxs := make([]int, len(keys))
	for i, k := range keys {
		idx := tbl.ColumnIndex(k)
		if idx < 0 {
			return nil, fmt.Errorf("key column %q: %w", k, types.ErrMalformedInput)
		}
		idxs[i] = idx
	}

	buckets := make(map[string][]int)
	order := make([]string, 0)
	for row := range tbl.Rows {
		key := projectionKey(tbl.Rows[row], idxs)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], row)
	}

	groups := make([]types.CandidateGroup, 0, len(order))
	for _, key := range order {
		rows := buckets[key]
		sort.Ints(rows)
		groups = append(groups, types.CandidateGroup{
			Method: types.GroupExact,
			Score:  1.0,
			Rows:   rows,
		})
	}
	return groups, nil
}

func projectionKey(row types.Row, idxs []int) string {
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		v := row[idx]
		if v.IsMissing() {
			// Missing is a distinct key fragment, never the empty string.
			parts[i] = "\x00"
			continue
		}
		parts[i] = similarity.Normalize(v.String())
	}
	return strings.Join(parts, keySep)
}

// PartitionRows flattens a grouping pass back to row indices, useful
// for verifying the partition invariant and for survivor selection.
func PartitionRows(groups []types.CandidateGroup) []int {
	var rows []int
	for _, g := range groups {
		rows = append(rows, g.Rows...)
	}
	sort.Ints(rows)
	return rows
}
