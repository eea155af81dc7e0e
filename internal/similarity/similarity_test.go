package similarity

import (
	"testing"

	"github.com/steveyegge/scour/internal/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John  Doe.", "johndoe"},
		{"JOHN DOE", "johndoe"},
		{"José García", "josegarcia"},
		{"Acme, Inc.", "acmeinc"},
		{"  spaced \t out ", "spacedout"},
		{"keep-hyphen", "keep-hyphen"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"johndoe", "johndoe", 100},
		{"", "", 100},
		{"johndoe", "jondoe", 85}, // one deletion over seven runes
		{"abc", "xyz", 0},
		{"abc", "", 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); got != tt.want {
			t.Errorf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		a, b   types.Value
		metric Metric
		want   float64
	}{
		{"exact after normalization", types.String("John Doe"), types.String("JOHN. doe"), MetricExact, 1.0},
		{"exact mismatch", types.String("John Doe"), types.String("Jane Doe"), MetricExact, 0.0},
		{"ratio identical", types.String("acme"), types.String("ACME"), MetricRatio, 1.0},
		{"ratio near", types.String("john doe"), types.String("jon doe"), MetricRatio, 0.85},
		{"missing left", types.Missing(), types.String("x"), MetricRatio, 0.0},
		{"missing both", types.Missing(), types.Missing(), MetricExact, 0.0},
		{"numbers compare by rendering", types.Number(42), types.Number(42), MetricExact, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.a, tt.b, tt.metric)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
			// Symmetry holds for every pairwise metric.
			flipped, err := Score(tt.b, tt.a, tt.metric)
			if err != nil {
				t.Fatalf("Score flipped: %v", err)
			}
			if flipped != got {
				t.Errorf("Score not symmetric: %v vs %v", got, flipped)
			}
		})
	}
}

func TestMetricIsValid(t *testing.T) {
	for _, m := range []Metric{MetricExact, MetricRatio, MetricSemantic} {
		if !m.IsValid() {
			t.Errorf("%s should be valid", m)
		}
	}
	if Metric("guess").IsValid() {
		t.Error("unknown metric should be invalid")
	}
	if MetricSemantic.Pairwise() {
		t.Error("semantic metric is corpus-scoped, not pairwise")
	}
}

func TestScoreRejectsSemantic(t *testing.T) {
	if _, err := Score(types.String("a"), types.String("b"), MetricSemantic); err == nil {
		t.Error("semantic metric must be rejected by pairwise Score")
	}
	if _, err := Score(types.String("a"), types.String("b"), Metric("bogus")); err == nil {
		t.Error("unknown metric must be rejected")
	}
}
