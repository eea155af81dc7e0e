package merge

import (
	"testing"

	"github.com/steveyegge/scour/internal/types"
)

var testColumns = []string{"customer_id", "name", "address", "score"}

func rec(id, name, address types.Value, score types.Value) types.Record {
	return types.Record{
		Columns: testColumns,
		Values:  types.Row{id, name, address, score},
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		ok   bool
	}{
		{"first-valid", PolicyFirstValid, true},
		{"first_valid", PolicyFirstValid, true},
		{"most_frequent", PolicyMostFrequent, true},
		{"MOST-FREQUENT", PolicyMostFrequent, true},
		{"concatenate", PolicyConcatenate, true},
		{"average", PolicyAverage, true},
		{"min", PolicyMin, true},
		{"max", PolicyMax, true},
		{" numeric-max ", PolicyMax, true},
		{"bogus", PolicyFirstValid, false},
		{"", PolicyFirstValid, false},
	}
	for _, tt := range tests {
		got, ok := ParsePolicy(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePolicy(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveEmptyGroup(t *testing.T) {
	if _, err := Resolve(nil, PolicyFirstValid, ""); err == nil {
		t.Error("empty group must fail")
	}
}

func TestResolveSingleton(t *testing.T) {
	r := rec(types.Number(1), types.String("John"), types.Missing(), types.Missing())
	got, err := Resolve([]types.Record{r}, PolicyConcatenate, "customer_id")
	if err != nil {
		t.Fatal(err)
	}
	for i := range r.Values {
		if !got.Values[i].Equal(r.Values[i]) {
			t.Errorf("singleton field %s changed", testColumns[i])
		}
	}
}

func TestResolveFirstValid(t *testing.T) {
	group := []types.Record{
		rec(types.Number(2), types.Missing(), types.String("12 Oak St"), types.Missing()),
		rec(types.Number(1), types.String("John Doe"), types.String("99 Elm Ave"), types.Number(5)),
	}
	got, err := Resolve(group, PolicyFirstValid, "")
	if err != nil {
		t.Fatal(err)
	}
	if name := got.Get("name").String(); name != "John Doe" {
		t.Errorf("name = %q, want first non-missing", name)
	}
	if addr := got.Get("address").String(); addr != "12 Oak St" {
		t.Errorf("address = %q, want value from first record", addr)
	}
}

func TestResolveMostFrequent(t *testing.T) {
	group := []types.Record{
		rec(types.Number(1), types.String("Jon"), types.Missing(), types.Missing()),
		rec(types.Number(2), types.String("John"), types.Missing(), types.Missing()),
		rec(types.Number(3), types.String("John"), types.Missing(), types.Missing()),
	}
	got, err := Resolve(group, PolicyMostFrequent, "")
	if err != nil {
		t.Fatal(err)
	}
	if name := got.Get("name").String(); name != "John" {
		t.Errorf("name = %q, want the majority value", name)
	}
}

func TestResolveMostFrequentTieBreaksToFirst(t *testing.T) {
	group := []types.Record{
		rec(types.Number(1), types.String("Jon"), types.Missing(), types.Missing()),
		rec(types.Number(2), types.String("John"), types.Missing(), types.Missing()),
	}
	got, err := Resolve(group, PolicyMostFrequent, "")
	if err != nil {
		t.Fatal(err)
	}
	if name := got.Get("name").String(); name != "Jon" {
		t.Errorf("name = %q, tie must keep the first encountered value", name)
	}
}

func TestResolveConcatenate(t *testing.T) {
	group := []types.Record{
		rec(types.Number(1), types.String("John"), types.String("99 Elm Ave"), types.Missing()),
		rec(types.Number(2), types.String("John"), types.String("12 Oak St"), types.Missing()),
		rec(types.Number(3), types.String("John"), types.String("99 Elm Ave"), types.Missing()),
	}
	got, err := Resolve(group, PolicyConcatenate, "")
	if err != nil {
		t.Fatal(err)
	}
	if addr := got.Get("address").String(); addr != "12 Oak St; 99 Elm Ave" {
		t.Errorf("address = %q, want distinct values sorted and joined", addr)
	}
	// Identical values collapse instead of repeating.
	if name := got.Get("name").String(); name != "John" {
		t.Errorf("name = %q", name)
	}
}

func TestResolveNumericPolicies(t *testing.T) {
	group := []types.Record{
		rec(types.Number(1), types.Missing(), types.Missing(), types.Number(10)),
		rec(types.Number(2), types.Missing(), types.Missing(), types.Number(20)),
		rec(types.Number(3), types.Missing(), types.Missing(), types.String("not a number")),
	}
	tests := []struct {
		policy Policy
		want   float64
	}{
		{PolicyAverage, 15},
		{PolicyMin, 10},
		{PolicyMax, 20},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			got, err := Resolve(group, tt.policy, "")
			if err != nil {
				t.Fatal(err)
			}
			n, ok := got.Get("score").AsNumber()
			if !ok || n != tt.want {
				t.Errorf("score = %v (numeric %v), want %v", got.Get("score"), ok, tt.want)
			}
		})
	}
}

func TestResolveAllMissingStaysMissing(t *testing.T) {
	group := []types.Record{
		rec(types.Number(1), types.Missing(), types.Missing(), types.Missing()),
		rec(types.Number(2), types.Missing(), types.Missing(), types.Missing()),
	}
	for _, policy := range []Policy{
		PolicyFirstValid, PolicyMostFrequent, PolicyConcatenate,
		PolicyAverage, PolicyMin, PolicyMax,
	} {
		got, err := Resolve(group, policy, "")
		if err != nil {
			t.Fatalf("%s: %v", policy, err)
		}
		if !got.Get("score").IsMissing() {
			t.Errorf("%s: all-missing field must stay missing, got %v", policy, got.Get("score"))
		}
	}
}

func TestResolvePreservedKey(t *testing.T) {
	group := []types.Record{
		rec(types.Number(7), types.String("John"), types.Missing(), types.Missing()),
		rec(types.Number(9), types.String("John"), types.Missing(), types.Missing()),
	}
	got, err := Resolve(group, PolicyConcatenate, "customer_id")
	if err != nil {
		t.Fatal(err)
	}
	n, ok := got.Get("customer_id").AsNumber()
	if !ok || n != 7 {
		t.Errorf("customer_id = %v, want the first record's key untouched", got.Get("customer_id"))
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	a := rec(types.Number(1), types.String("A"), types.String("x"), types.Number(1))
	b := rec(types.Number(2), types.String("B"), types.String("y"), types.Number(2))
	if _, err := Resolve([]types.Record{a, b}, PolicyConcatenate, ""); err != nil {
		t.Fatal(err)
	}
	if a.Get("address").String() != "x" || b.Get("address").String() != "y" {
		t.Error("Resolve mutated its input records")
	}
}

func TestResolveAll(t *testing.T) {
	groups := make([][]types.Record, 20)
	for i := range groups {
		groups[i] = []types.Record{
			rec(types.Number(float64(i)), types.String("A"), types.Missing(), types.Number(1)),
			rec(types.Number(float64(i+100)), types.Missing(), types.String("addr"), types.Number(3)),
		}
	}
	got, err := ResolveAll(groups, PolicyAverage, "customer_id")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(groups) {
		t.Fatalf("got %d records, want %d", len(got), len(groups))
	}
	for i, r := range got {
		id, _ := r.Get("customer_id").AsNumber()
		if id != float64(i) {
			t.Errorf("record %d: id %v, output order must match input order", i, id)
		}
		score, _ := r.Get("score").AsNumber()
		if score != 2 {
			t.Errorf("record %d: score %v, want 2", i, score)
		}
	}
}
