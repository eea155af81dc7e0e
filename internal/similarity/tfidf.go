package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches word tokens of at least two characters, so
// single letters and stray initials do not dominate term weights.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// stopwords is the set of high-frequency English terms excluded from
// vectorization. Terms this common carry no discriminating weight for
// entity matching.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an and are as at be but by for from has have if in into is it " +
			"its no not of on or such that the their then there these they " +
			"this to was were will with",
	) {
		stopwords[w] = struct{}{}
	}
}

// Vector is a sparse TF-IDF vector keyed by term index, L2-normalized
// so cosine similarity reduces to a dot product.
type Vector map[int]float64

// Vectorizer holds the vocabulary and inverse document frequencies
// learned from one corpus. Term weights depend on document frequencies
// across the whole corpus, so a Vectorizer is only meaningful for the
// corpus it was fitted on and must be rebuilt when the corpus changes.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
	docs  []Vector
}

// NewVectorizer fits TF-IDF weights over the corpus and vectorizes
// every document. The fit is deterministic: vocabulary indices are
// assigned in sorted term order.
func NewVectorizer(corpus []string) *Vectorizer {
	tokenized := make([][]string, len(corpus))
	df := make(map[string]int)
	for i, doc := range corpus {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, dup := seen[tok]; !dup {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &Vectorizer{vocab: make(map[string]int, len(terms))}
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed IDF: every term behaves as if seen in one extra
		// document, keeping weights finite for corpus-wide terms.
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v.docs = make([]Vector, len(corpus))
	for i, tokens := range tokenized {
		v.docs[i] = v.vectorizeTokens(tokens)
	}
	return v
}

// Len returns the corpus size.
func (v *Vectorizer) Len() int { return len(v.docs) }

// Doc returns the fitted vector for corpus document i.
func (v *Vectorizer) Doc(i int) Vector { return v.docs[i] }

// Vectorize maps an arbitrary string into the fitted term space.
// Terms outside the fitted vocabulary are dropped.
func (v *Vectorizer) Vectorize(s string) Vector {
	return v.vectorizeTokens(tokenize(s))
}

func (v *Vectorizer) vectorizeTokens(tokens []string) Vector {
	vec := make(Vector)
	for _, tok := range tokens {
		if idx, ok := v.vocab[tok]; ok {
			vec[idx] += v.idf[idx]
		}
	}
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i, w := range vec {
			vec[i] = w / norm
		}
	}
	return vec
}

// Cosine returns the cosine similarity of two vectors from the same
// vectorizer, in [0,1]. Vectors are already L2-normalized, so this is
// a dot product over the smaller vector's terms.
func Cosine(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for i, w := range a {
		if bw, ok := b[i]; ok {
			dot += w * bw
		}
	}
	// Clamp float drift so callers can rely on the [0,1] contract.
	if dot > 1 {
		return 1
	}
	if dot < 0 {
		return 0
	}
	return dot
}

func tokenize(s string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(Fold(s)), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := stopwords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
