package grouping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/scour/internal/similarity"
	"github.com/steveyegge/scour/internal/types"
)

// ClusterGroups groups similar records by vectorizing several text
// columns jointly (values concatenated per record, then TF-IDF) and
// running hierarchical agglomerative clustering with Ward linkage.
//
// The target cluster count is derived from the similarity threshold:
//
//	desired = (1 - threshold) * n + 1
//	k       = max(2, min(desired, n/2))
//
// so a higher threshold yields fewer, tighter clusters. Clusters of
// size 1 carry no duplicate signal and are discarded; only multi-member
// clusters are returned. Fewer than two records cannot cluster.
//
// Merging is deterministic: ties in linkage distance break on the
// lowest cluster indices, so membership is stable across runs.
func ClusterGroups(tbl *types.Table, columns []string, threshold float64) ([]types.CandidateGroup, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0,1] (got %.4f)", threshold)
	}
	idxs := make([]int, len(columns))
	for i, c := range columns {
		idx := tbl.ColumnIndex(c)
		if idx < 0 {
			return nil, fmt.Errorf("cluster column %q: %w", c, types.ErrMalformedInput)
		}
		idxs[i] = idx
	}

	n := tbl.Len()
	if n < 2 {
		return nil, nil
	}

	corpus := make([]string, n)
	for row := range tbl.Rows {
		parts := make([]string, 0, len(idxs))
		for _, idx := range idxs {
			v := tbl.Rows[row][idx]
			if !v.IsMissing() {
				parts = append(parts, v.String())
			}
		}
		corpus[row] = strings.Join(parts, " ")
	}
	vec := similarity.NewVectorizer(corpus)

	desired := int((1-threshold)*float64(n)) + 1
	k := desired
	if k > n/2 {
		k = n / 2
	}
	if k < 2 {
		k = 2
	}

	assignment := agglomerate(vec, n, k)

	members := make(map[int][]int)
	order := make([]int, 0)
	for row, cluster := range assignment {
		if _, seen := members[cluster]; !seen {
			order = append(order, cluster)
		}
		members[cluster] = append(members[cluster], row)
	}

	var groups []types.CandidateGroup
	for _, cluster := range order {
		rows := members[cluster]
		if len(rows) < 2 {
			continue
		}
		sort.Ints(rows)
		groups = append(groups, types.CandidateGroup{
			Method: types.GroupCluster,
			Score:  meanPairwiseCosine(vec, rows),
			Rows:   rows,
		})
	}
	return groups, nil
}

// agglomerate runs bottom-up Ward clustering and returns a cluster id
// per row. Ward linkage merges the pair whose union minimizes the
// within-cluster variance increase:
//
//	d(a, b) = (|a|*|b| / (|a|+|b|)) * ||centroid(a) - centroid(b)||^2
func agglomerate(vec *similarity.Vectorizer, n, k int) []int {
	type cluster struct {
		id       int
		size     int
		centroid similarity.Vector
	}
	parents := make(map[int]int)
	clusters := make([]cluster, n)
	for i := 0; i < n; i++ {
		centroid := make(similarity.Vector, len(vec.Doc(i)))
		for term, w := range vec.Doc(i) {
			centroid[term] = w
		}
		clusters[i] = cluster{id: i, size: 1, centroid: centroid}
	}

	for len(clusters) > k {
		bestI, bestJ := 0, 1
		bestDist := -1.0
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				a, b := clusters[i], clusters[j]
				factor := float64(a.size*b.size) / float64(a.size+b.size)
				dist := factor * squaredDistance(a.centroid, b.centroid)
				if bestDist < 0 || dist < bestDist {
					bestDist = dist
					bestI, bestJ = i, j
				}
			}
		}

		a, b := clusters[bestI], clusters[bestJ]
		merged := cluster{
			id:       a.id,
			size:     a.size + b.size,
			centroid: weightedMean(a.centroid, a.size, b.centroid, b.size),
		}
		clusters[bestI] = merged
		clusters = append(clusters[:bestJ], clusters[bestJ+1:]...)
		parents[b.id] = a.id
	}

	resolve := func(id int) int {
		for {
			p, ok := parents[id]
			if !ok {
				return id
			}
			id = p
		}
	}
	assignment := make([]int, n)
	for row := 0; row < n; row++ {
		assignment[row] = resolve(row)
	}
	return assignment
}

func squaredDistance(a, b similarity.Vector) float64 {
	var sum float64
	for term, wa := range a {
		d := wa - b[term]
		sum += d * d
	}
	for term, wb := range b {
		if _, ok := a[term]; !ok {
			sum += wb * wb
		}
	}
	return sum
}

func weightedMean(a similarity.Vector, na int, b similarity.Vector, nb int) similarity.Vector {
	total := float64(na + nb)
	out := make(similarity.Vector, len(a)+len(b))
	for term, w := range a {
		out[term] += w * float64(na) / total
	}
	for term, w := range b {
		out[term] += w * float64(nb) / total
	}
	return out
}

func meanPairwiseCosine(vec *similarity.Vectorizer, rows []int) float64 {
	if len(rows) < 2 {
		return 1.0
	}
	var sum float64
	var count int
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			sum += similarity.Cosine(vec.Doc(rows[i]), vec.Doc(rows[j]))
			count++
		}
	}
	return sum / float64(count)
}
