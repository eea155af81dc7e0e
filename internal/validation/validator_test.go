package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/scour/internal/types"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Now: func() time.Time { return testNow }}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"john.doe@example.com", true},
		{"a+b_c%d@sub.domain.org", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@example.com", false},
		{"spaces in@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.in), "ValidEmail(%q)", tt.in)
	}
}

func TestPlausiblePhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"123-4567", true},        // standardized local form
		{"+1 650 253 0000", true}, // full number, valid for US
		{"(650) 253-0000", true},  // national format
		{"12-34", false},          // too short either way
		{"not a phone", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlausiblePhone(tt.in, "US"), "PlausiblePhone(%q)", tt.in)
	}
}

func TestValidPostalCode(t *testing.T) {
	tests := []struct {
		in     string
		region string
		want   bool
	}{
		{"12345", "US", true},
		{"12345-6789", "US", true},
		{"1234", "US", false},
		{"K1A 0B1", "CA", true},
		{"k1a0b1", "CA", true},
		{"K1A 0B1", "US", false},
		{"12345", "CA", false},
		{"K1A 0B1", "", true},
		{"12345", "", true},
		{"ABCDE", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPostalCode(tt.in, tt.region),
			"ValidPostalCode(%q, %q)", tt.in, tt.region)
	}
}

func makeTable(t *testing.T, columns []string, rows []types.Row) *types.Table {
	t.Helper()
	tbl, err := types.NewTable(columns)
	require.NoError(t, err)
	for _, r := range rows {
		tbl.AppendRow(r)
	}
	return tbl
}

func TestRunRemovesInvalidEmails(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email"}, []types.Row{
		{types.String("John"), types.String("john@example.com")},
		{types.String("Jane"), types.String("not-an-email")},
		{types.String("Ann"), types.String("ann@example.org")},
	})
	v := New(testConfig())
	out, report, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, 1, report.Removed[RuleEmail])
	assert.Equal(t, StatusPassed, v.Status())
	assert.NoError(t, report.Validate())
}

func TestRunRemovesInvalidPhones(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email", "phone"}, []types.Row{
		{types.String("John"), types.String("john@x.com"), types.String("123-4567")},
		{types.String("Jane"), types.String("jane@x.com"), types.String("junk")},
	})
	v := New(testConfig())
	out, report, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, 1, report.Removed[RulePhone])
	assert.Equal(t, "John", out.Value(0, "name").String())
}

func TestRunRequiredFieldsPerFieldCounts(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email", "phone"}, []types.Row{
		{types.String("John"), types.String("john@x.com"), types.String("123-4567")},
		{types.Missing(), types.String("jane@x.com"), types.String("123-4567")},
	})
	v := New(testConfig())
	out, report, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, 1, report.MissingRequired["name"])
	assert.Equal(t, 1, report.Removed[RuleRequired])
	assert.NoError(t, report.Validate())
}

func TestRunFlagsFutureDatesWithoutRemoving(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email", "last_purchase_date"}, []types.Row{
		{types.String("John"), types.String("john@x.com"), types.Time(testNow.AddDate(0, -1, 0))},
		{types.String("Jane"), types.String("jane@x.com"), types.Time(testNow.AddDate(1, 0, 0))},
	})
	v := New(testConfig())
	out, report, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len(), "future dates are soft failures")
	assert.Equal(t, 1, report.Flagged[RuleFutureDate])
	assert.NotEmpty(t, report.Warnings)
}

func TestRunRemovesInvalidPostalCodes(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email", "postal_code"}, []types.Row{
		{types.String("John"), types.String("john@x.com"), types.String("12345")},
		{types.String("Jane"), types.String("jane@x.com"), types.String("K1A 0B1")},
		{types.String("Ann"), types.String("ann@x.com"), types.String("nope")},
	})
	v := New(testConfig())
	out, report, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, 1, report.Removed[RulePostalCode])
}

func TestRunFlagsRangeViolationsWithoutRemoving(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email", "age", "purchase_amount"}, []types.Row{
		{types.String("John"), types.String("john@x.com"), types.Number(30), types.Number(10)},
		{types.String("Jane"), types.String("jane@x.com"), types.Number(200), types.Number(-5)},
	})
	v := New(testConfig())
	out, report, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len(), "range violations are soft failures")
	assert.Equal(t, 1, report.Flagged[RuleAgeRange])
	assert.Equal(t, 1, report.Flagged[RuleNegative])
}

func TestRunSkipsAbsentColumnsWithWarning(t *testing.T) {
	tbl := makeTable(t, []string{"id"}, []types.Row{
		{types.String("1")},
	})
	cfg := testConfig()
	v := New(cfg)
	out, report, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len(), "nothing to validate, nothing removed")
	assert.Contains(t, report.Warnings, "No email column found")
	assert.Contains(t, report.Warnings, "No phone column found")
	assert.Contains(t, report.Warnings, "Required field name not found in data")
}

func TestRunAccounting(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email", "phone", "postal_code"}, []types.Row{
		{types.String("a"), types.String("a@x.com"), types.String("123-4567"), types.String("12345")},
		{types.String("b"), types.String("bad"), types.String("123-4567"), types.String("12345")},
		{types.String("c"), types.String("c@x.com"), types.String("nope"), types.String("12345")},
		{types.Missing(), types.String("d@x.com"), types.String("123-4567"), types.String("12345")},
		{types.String("e"), types.String("e@x.com"), types.String("123-4567"), types.String("bad")},
	})
	v := New(testConfig())
	out, report, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, 5, report.InitialCount)
	assert.Equal(t, 1, report.FinalCount)
	assert.Equal(t, 4, report.RemovedRows)
	assert.NoError(t, report.Validate())
	// One removal per rule in this fixture.
	assert.Equal(t, 1, report.Removed[RuleEmail])
	assert.Equal(t, 1, report.Removed[RulePhone])
	assert.Equal(t, 1, report.Removed[RuleRequired])
	assert.Equal(t, 1, report.Removed[RulePostalCode])
}

func TestRunDoesNotModifyInput(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email"}, []types.Row{
		{types.String("John"), types.String("bad")},
	})
	v := New(testConfig())
	_, _, err := v.Run(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len(), "input table must not be filtered in place")
}

func TestReportValidate(t *testing.T) {
	r := &Report{InitialCount: 5, FinalCount: 3, RemovedRows: 2, Removed: map[string]int{RuleEmail: 2}}
	assert.NoError(t, r.Validate())
	r.RemovedRows = 1
	assert.Error(t, r.Validate())
	r.RemovedRows = 2
	r.Removed[RuleEmail] = 1
	assert.Error(t, r.Validate())
}
