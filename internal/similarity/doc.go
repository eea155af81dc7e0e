// Package similarity computes pairwise similarity between field values.
//
// # Overview
//
// Three metrics are supported:
//
//  1. MetricExact: case-insensitive, punctuation-stripped,
//     whitespace-removed string equality. Scores 1.0 or 0.0.
//  2. MetricRatio: Levenshtein edit-distance ratio. Internally a
//     0-100 scale, normalized to [0,1] at the API boundary.
//  3. MetricSemantic: TF-IDF vectorization with cosine similarity.
//
// Exact and ratio are pure two-argument functions exposed through
// Score. The semantic metric is corpus-scoped: term weights depend on
// document frequencies across the full set of values for a field, so
// it is exposed as a Vectorizer built from a corpus rather than a
// pairwise function. A Vectorizer must be rebuilt whenever the corpus
// changes.
//
// # Properties
//
// For every metric, Score is deterministic and symmetric, scores
// against a missing value are always 0.0, and Score(a, a) is 1.0 for
// any non-missing a.
package similarity
