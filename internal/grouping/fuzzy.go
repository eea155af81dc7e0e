package grouping

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/steveyegge/scour/internal/similarity"
	"github.com/steveyegge/scour/internal/types"
)

// Composite-key column names. FuzzyGroups requires all three.
const (
	colName  = "name"
	colEmail = "email"
	colPhone = "phone"
)

// phonePrefixLen is how many leading phone digits participate in the
// composite key. Seven digits distinguishes local numbers while
// absorbing formatting and extension noise.
const phonePrefixLen = 7

// FuzzyGroups partitions the table by a composite normalized key:
// normalized name, the local part of the email, and the first seven
// digits of the phone number. Records sharing the composite key form a
// group unconditionally; the key itself is the match criterion and no
// pairwise scoring happens inside a bucket.
//
// This is a blocking-then-bucket strategy: far cheaper, and less
// precise, than full pairwise comparison. Use FuzzyPairs for the
// latter.
//
// The name, email, and phone columns must all be present; the
// composite key is meaningless without them.
func FuzzyGroups(tbl *types.Table) ([]types.CandidateGroup, error) {
	if !tbl.HasColumns(colName, colEmail, colPhone) {
		return nil, types.ErrMalformedInput
	}
	nameIdx := tbl.ColumnIndex(colName)
	emailIdx := tbl.ColumnIndex(colEmail)
	phoneIdx := tbl.ColumnIndex(colPhone)

	buckets := make(map[string][]int)
	order := make([]string, 0)
	for row := range tbl.Rows {
		key := compositeKey(tbl.Rows[row][nameIdx], tbl.Rows[row][emailIdx], tbl.Rows[row][phoneIdx])
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
			Method: types.GroupFuzzy,
			Score:  1.0, // composite keys matched exactly
			Rows:   rows,
		})
	}
	return groups, nil
}

func compositeKey(name, email, phone types.Value) string {
	var nameFrag, emailFrag, phoneFrag string
	if !name.IsMissing() {
		nameFrag = similarity.Normalize(name.String())
	}
	if !email.IsMissing() {
		local, _, _ := strings.Cut(email.String(), "@")
		emailFrag = similarity.Normalize(local)
	}
	if !phone.IsMissing() {
		phoneFrag = phoneDigits(phone.String(), phonePrefixLen)
	}
	return nameFrag + keySep + emailFrag + keySep + phoneFrag
}

func phoneDigits(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == max {
				break
			}
		}
	}
	return b.String()
}

// Pair is one discovered similarity pair over the distinct values of a
// column. A and B are ordered so A <= B; the symmetric duplicate of a
// pair is never emitted.
type Pair struct {
	A, B string
	// Score is on the 0-100 ratio scale for FuzzyPairs and in [0,1]
	// for SemanticPairs, mirroring each discovery surface's native
	// representation. The two are distinct operations and their scales
	// are deliberately not reconciled.
	Score float64
}

// FuzzyPairs finds edit-distance duplicates among the distinct values
// of a single column. For every distinct value it retrieves the topN
// most similar other values under the ratio metric and keeps pairs
// scoring at least threshold (0-100 scale).
//
// The result is an unordered pair list sorted by descending score, not
// a partition: transitively linked pairs are not merged. Callers that
// need a partition must union the pairs themselves.
//
// Malformed match results (empty values, non-finite scores) are
// skipped with a warning rather than failing the discovery.
func FuzzyPairs(values []string, threshold, topN int, logger *slog.Logger) []Pair {
	if logger == nil {
		logger = slog.Default()
	}
	distinct := distinctValues(values)

	type match struct {
		value string
		score float64
	}
	seen := make(map[[2]string]struct{})
	var pairs []Pair
	for _, val := range distinct {
		matches := make([]match, 0, len(distinct)-1)
		for _, other := range distinct {
			if other == val {
				continue
			}
			score, err := similarity.Score(types.String(val), types.String(other), similarity.MetricRatio)
			if err != nil {
				logger.Warn("skipping malformed similarity result", "value", val, "error", err)
				continue
			}
			matches = append(matches, match{value: other, score: score * 100})
		}
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].score != matches[j].score {
				return matches[i].score > matches[j].score
			}
			return matches[i].value < matches[j].value
		})
		if len(matches) > topN {
			matches = matches[:topN]
		}
		for _, m := range matches {
			if m.value == "" || math.IsNaN(m.score) || math.IsInf(m.score, 0) {
				logger.Warn("skipping malformed match", "value", val, "match", m.value, "score", m.score)
				continue
			}
			if m.score < float64(threshold) {
				continue
			}
			key := orderedPair(val, m.value)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, Pair{A: key[0], B: key[1], Score: m.score})
		}
	}
	sortPairs(pairs)
	return pairs
}

// SemanticPairs finds semantic duplicates among the distinct values of
// a single column using TF-IDF vectorization and cosine similarity.
// Threshold is in [0,1]. Like FuzzyPairs the result is a pair list,
// not a partition.
//
// The TF-IDF fit is corpus-scoped over the distinct values, so scores
// change when the value set changes.
func SemanticPairs(values []string, threshold float64) []Pair {
	distinct := distinctValues(values)
	vec := similarity.NewVectorizer(distinct)

	var pairs []Pair
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			score := similarity.Cosine(vec.Doc(i), vec.Doc(j))
			if score < threshold {
				continue
			}
			key := orderedPair(distinct[i], distinct[j])
			pairs = append(pairs, Pair{A: key[0], B: key[1], Score: score})
		}
	}
	sortPairs(pairs)
	return pairs
}

// distinctValues keeps the first occurrence of each non-empty value,
// preserving input order so discovery is deterministic.
func distinctValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func orderedPair(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func sortPairs(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}
