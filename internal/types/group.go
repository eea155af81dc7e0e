package types

import "fmt"

// GroupMethod tags how a candidate group was formed.
type GroupMethod string

const (
	// GroupExact groups records whose normalized key projections are identical.
	GroupExact GroupMethod = "exact"
	// GroupFuzzy groups records sharing a composite normalized key.
	GroupFuzzy GroupMethod = "fuzzy"
	// GroupCluster groups records placed together by text clustering.
	GroupCluster GroupMethod = "cluster"
)

// IsValid reports whether the method is one of the known tags.
func (m GroupMethod) IsValid() bool {
	switch m {
	case GroupExact, GroupFuzzy, GroupCluster:
		return true
	}
	return false
}

// CandidateGroup is a non-empty set of row indices believed to refer to
// the same real-world entity. Groups produced by a single grouping pass
// are disjoint: every row belongs to exactly one group.
type CandidateGroup struct {
	// Method records how the group was formed.
	Method GroupMethod

	// Score is the similarity score in [0,1] for fuzzy and cluster
	// groups. Exact groups carry 1.0.
	Score float64

	// Rows are the member row indices in the source table, ascending.
	Rows []int
}

// Validate checks the group's structural invariants.
func (g *CandidateGroup) Validate() error {
	if !g.Method.IsValid() {
		return fmt.Errorf("invalid group method: %s", g.Method)
	}
	if len(g.Rows) == 0 {
		return fmt.Errorf("candidate group must be non-empty")
	}
	if g.Score < 0.0 || g.Score > 1.0 {
		return fmt.Errorf("score must be between 0.0 and 1.0 (got %.4f)", g.Score)
	}
	for i := 1; i < len(g.Rows); i++ {
		if g.Rows[i] <= g.Rows[i-1] {
			return fmt.Errorf("rows must be strictly ascending (got %d after %d)", g.Rows[i], g.Rows[i-1])
		}
	}
	return nil
}
