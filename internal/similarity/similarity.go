package similarity

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/steveyegge/scour/internal/types"
)

// Metric selects the comparison algorithm used by Score.
type Metric string

const (
	// MetricExact is normalized string equality: 1.0 or 0.0.
	MetricExact Metric = "exact"
	// MetricRatio is the Levenshtein edit-distance ratio.
	MetricRatio Metric = "ratio"
	// MetricSemantic is TF-IDF cosine similarity. It is corpus-scoped
	// and not available through the pairwise Score function; build a
	// Vectorizer instead.
	MetricSemantic Metric = "semantic"
)

// IsValid reports whether the metric is one of the known names.
func (m Metric) IsValid() bool {
	switch m {
	case MetricExact, MetricRatio, MetricSemantic:
		return true
	}
	return false
}

// Pairwise reports whether the metric is a pure two-argument function.
func (m Metric) Pairwise() bool {
	return m == MetricExact || m == MetricRatio
}

// Score computes the similarity of two values in [0,1] under a pairwise
// metric. It is pure, deterministic, and symmetric. A missing value
// never matches anything: its score is always 0.0, including against
// another missing value.
//
// MetricSemantic is rejected here because its term weights depend on a
// corpus, not just the two arguments; use NewVectorizer.
func Score(a, b types.Value, metric Metric) (float64, error) {
	if !metric.Pairwise() {
		return 0, fmt.Errorf("metric %q is not pairwise: %w", metric, errNotPairwise)
	}
	if a.IsMissing() || b.IsMissing() {
		return 0, nil
	}
	sa := Normalize(a.String())
	sb := Normalize(b.String())
	switch metric {
	case MetricExact:
		if sa == sb {
			return 1.0, nil
		}
		return 0, nil
	case MetricRatio:
		return float64(Ratio(sa, sb)) / 100.0, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", metric)
	}
}

var errNotPairwise = fmt.Errorf("corpus-scoped metric")

// Ratio returns the edit-distance similarity of two already-normalized
// strings on a 0-100 scale: 100*(1 - distance/maxLen). Two empty
// strings score 100.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(100.0 * (1.0 - float64(dist)/float64(longest)))
}
