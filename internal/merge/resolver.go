// Package merge collapses duplicate-candidate groups into canonical
// records under a configurable per-field conflict-resolution policy.
package merge

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/steveyegge/scour/internal/types"
)

// Policy selects how conflicting field values are resolved when a
// group collapses to one canonical record.
type Policy string

const (
	// PolicyFirstValid takes the first non-missing value in the
	// group's original relative order.
	PolicyFirstValid Policy = "first-valid"
	// PolicyMostFrequent takes the most frequent value; ties break to
	// the first value encountered in the group's original order.
	PolicyMostFrequent Policy = "most-frequent"
	// PolicyConcatenate joins the distinct non-missing stringified
	// values with "; ", sorted for determinism.
	PolicyConcatenate Policy = "concatenate"
	// PolicyAverage averages the numeric values of the field.
	PolicyAverage Policy = "numeric-average"
	// PolicyMin takes the minimum numeric value.
	PolicyMin Policy = "numeric-min"
	// PolicyMax takes the maximum numeric value.
	PolicyMax Policy = "numeric-max"
)

// IsValid reports whether the policy is one of the defined strategies.
func (p Policy) IsValid() bool {
	switch p {
	case PolicyFirstValid, PolicyMostFrequent, PolicyConcatenate,
		PolicyAverage, PolicyMin, PolicyMax:
		return true
	}
	return false
}

// ParsePolicy maps a caller-supplied policy name to a Policy. An
// unrecognized name falls back to the documented default, first-valid,
// and reports ok=false so the caller can log a configuration warning.
// It never fails.
func ParsePolicy(name string) (Policy, bool) {
	p := Policy(strings.ToLower(strings.TrimSpace(name)))
	if p.IsValid() {
		return p, true
	}
	// Accept the original strategy spellings as aliases.
	switch p {
	case "first_valid":
		return PolicyFirstValid, true
	case "most_frequent":
		return PolicyMostFrequent, true
	case "average":
		return PolicyAverage, true
	case "min":
		return PolicyMin, true
	case "max":
		return PolicyMax, true
	}
	return PolicyFirstValid, false
}

// Resolve collapses a duplicate group into a single canonical record.
//
// A singleton group returns its sole record unchanged. Larger groups
// apply the policy per field. Every policy is total: it produces a
// deterministic value (possibly missing) for every field of every
// group composition, and a field whose values are all missing resolves
// to missing regardless of policy.
//
// When preservedKey names a field, its value is always taken from the
// first record in the group regardless of policy: identity fields are
// never merged or concatenated.
//
// Input records are never mutated.
func Resolve(group []types.Record, policy Policy, preservedKey string) (types.Record, error) {
	if len(group) == 0 {
		return types.Record{}, fmt.Errorf("cannot resolve an empty group")
	}
	if len(group) == 1 {
		return group[0], nil
	}

	cols := group[0].Columns
	merged := make(types.Row, len(cols))
	for i, col := range cols {
		if col == preservedKey {
			merged[i] = group[0].Values[i]
			continue
		}
		values := make([]types.Value, len(group))
		for j, rec := range group {
			values[j] = rec.Values[i]
		}
		merged[i] = resolveField(values, policy)
	}
	return types.Record{Columns: cols, Values: merged}, nil
}

func resolveField(values []types.Value, policy Policy) types.Value {
	switch policy {
	case PolicyMostFrequent:
		return mostFrequent(values)
	case PolicyConcatenate:
		return concatenate(values)
	case PolicyAverage, PolicyMin, PolicyMax:
		return numeric(values, policy)
	default:
		return firstValid(values)
	}
}

func firstValid(values []types.Value) types.Value {
	for _, v := range values {
		if !v.IsMissing() {
			return v
		}
	}
	return types.Missing()
}

func mostFrequent(values []types.Value) types.Value {
	counts := make(map[string]int)
	var keys []string // first-occurrence order
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		k := v.Key()
		if _, seen := counts[k]; !seen {
			keys = append(keys, k)
		}
		counts[k]++
	}
	if len(keys) == 0 {
		return types.Missing()
	}
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
		// Equal counts keep the earlier first occurrence: best already
		// precedes k in encounter order.
	}
	for _, v := range values {
		if !v.IsMissing() && v.Key() == best {
			return v
		}
	}
	return types.Missing()
}

func concatenate(values []types.Value) types.Value {
	seen := make(map[string]struct{})
	var parts []string
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		s := strings.TrimSpace(v.String())
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return types.Missing()
	}
	sort.Strings(parts)
	return types.String(strings.Join(parts, "; "))
}

// numeric applies average/min/max over the field's numeric values.
// Missing values are ignored; non-numeric values cannot participate
// and are ignored too. With no numeric values the result is missing,
// never zero and never an error.
func numeric(values []types.Value, policy Policy) types.Value {
	var nums []float64
	for _, v := range values {
		if n, ok := v.AsNumber(); ok {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return types.Missing()
	}
	switch policy {
	case PolicyMin:
		best := nums[0]
		for _, n := range nums[1:] {
			if n < best {
				best = n
			}
		}
		return types.Number(best)
	case PolicyMax:
		best := nums[0]
		for _, n := range nums[1:] {
			if n > best {
				best = n
			}
		}
		return types.Number(best)
	default:
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return types.Number(sum / float64(len(nums)))
	}
}

// ResolveAll resolves many groups into canonical records. Groups share
// no mutable state, so resolution is parallelized across available
// cores; output order matches input group order regardless of
// scheduling.
func ResolveAll(groups [][]types.Record, policy Policy, preservedKey string) ([]types.Record, error) {
	out := make([]types.Record, len(groups))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			rec, err := Resolve(group, policy, preservedKey)
			if err != nil {
				return fmt.Errorf("group %d: %w", i, err)
			}
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
