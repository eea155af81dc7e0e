// Package grouping partitions record tables into duplicate-candidate
// groups.
//
// # Strategies
//
// Three partitioning strategies produce disjoint CandidateGroups over a
// table:
//
//   - ExactGroups: hash blocking on a normalized projection of chosen
//     key columns. O(n).
//   - FuzzyGroups: bucketing on a composite normalized key built from
//     name, email local-part, and leading phone digits. The composite
//     key IS the match criterion; no pairwise scoring happens inside a
//     bucket. This is deliberately cheaper and less precise than full
//     pairwise matching.
//   - ClusterGroups: joint TF-IDF vectorization of several text
//     columns followed by hierarchical agglomerative clustering.
//
// Two further entry points discover similarity PAIRS over the distinct
// values of a single column, not partitions:
//
//   - FuzzyPairs: top-N edit-distance neighbors per value.
//   - SemanticPairs: TF-IDF cosine over all value pairs.
//
// Pair lists may overlap transitively; callers needing a partition must
// union-find the pairs themselves. The bucketing and pairwise notions
// of "duplicate" are intentionally distinct operations and are not
// reconciled here.
//
// # Determinism
//
// Given identical input and parameters every strategy produces the same
// group membership across runs, and membership is invariant under input
// row shuffling (group iteration order may differ).
package grouping
