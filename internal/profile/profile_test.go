package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/scour/internal/types"
)

func makeTable(t *testing.T, columns []string, rows []types.Row) *types.Table {
	t.Helper()
	tbl, err := types.NewTable(columns)
	require.NoError(t, err)
	for _, r := range rows {
		tbl.AppendRow(r)
	}
	return tbl
}

func TestMissingStats(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email", "phone"}, []types.Row{
		{types.String("a"), types.Missing(), types.Missing()},
		{types.String("b"), types.String("b@x.com"), types.Missing()},
	})
	stats := MissingStats(tbl)
	require.Len(t, stats, 2, "complete columns are omitted")
	// Sorted by descending percentage.
	assert.Equal(t, "phone", stats[0].Column)
	assert.Equal(t, 2, stats[0].Count)
	assert.InDelta(t, 100.0/3, stats[0].Percent, 1e-9)
	assert.Equal(t, "email", stats[1].Column)
	assert.Equal(t, 1, stats[1].Count)
}

func TestMissingStatsEmptyTable(t *testing.T) {
	tbl := makeTable(t, []string{"name"}, nil)
	assert.Nil(t, MissingStats(tbl))
}

func TestHandleMissingDrop(t *testing.T) {
	tbl := makeTable(t, []string{"name", "email"}, []types.Row{
		{types.String("a"), types.String("a@x.com")},
		{types.String("b"), types.Missing()},
		{types.Missing(), types.Missing()},
	})
	out, warnings := HandleMissing(tbl, Options{Strategy: StrategyDrop, Columns: []string{"email"}})
	assert.Empty(t, warnings)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "a", out.Value(0, "name").String())
}

func TestHandleMissingFill(t *testing.T) {
	tbl := makeTable(t, []string{"segment"}, []types.Row{
		{types.Missing()},
		{types.String("SMB")},
	})
	out, warnings := HandleMissing(tbl, Options{
		Strategy:  StrategyFill,
		FillValue: types.String("Unknown"),
	})
	assert.Empty(t, warnings)
	assert.Equal(t, "Unknown", out.Value(0, "segment").String())
	assert.Equal(t, "SMB", out.Value(1, "segment").String())
	// Input untouched.
	assert.True(t, tbl.Value(0, "segment").IsMissing())
}

func TestHandleMissingFillWithoutValue(t *testing.T) {
	tbl := makeTable(t, []string{"a"}, []types.Row{{types.Missing()}})
	out, warnings := HandleMissing(tbl, Options{Strategy: StrategyFill})
	assert.NotEmpty(t, warnings)
	assert.True(t, out.Value(0, "a").IsMissing())
}

func TestHandleMissingImpute(t *testing.T) {
	tbl := makeTable(t, []string{"age"}, []types.Row{
		{types.Number(10)},
		{types.Number(20)},
		{types.Number(60)},
		{types.Missing()},
	})
	mean, warnings := HandleMissing(tbl, Options{Strategy: StrategyImputeMean, Columns: []string{"age"}})
	assert.Empty(t, warnings)
	n, ok := mean.Value(3, "age").AsNumber()
	require.True(t, ok)
	assert.InDelta(t, 30, n, 1e-9)

	median, _ := HandleMissing(tbl, Options{Strategy: StrategyImputeMedian, Columns: []string{"age"}})
	n, ok = median.Value(3, "age").AsNumber()
	require.True(t, ok)
	assert.InDelta(t, 20, n, 1e-9)
}

func TestHandleMissingImputeNonNumeric(t *testing.T) {
	tbl := makeTable(t, []string{"name"}, []types.Row{
		{types.String("a")},
		{types.Missing()},
	})
	out, warnings := HandleMissing(tbl, Options{Strategy: StrategyImputeMean, Columns: []string{"name"}})
	assert.NotEmpty(t, warnings)
	assert.True(t, out.Value(1, "name").IsMissing(), "non-numeric columns are left alone")
}

func TestHandleMissingUnknownStrategy(t *testing.T) {
	tbl := makeTable(t, []string{"a"}, []types.Row{{types.Missing()}})
	out, warnings := HandleMissing(tbl, Options{Strategy: "wat"})
	assert.NotEmpty(t, warnings)
	assert.Equal(t, tbl.Len(), out.Len())
}

func TestHandleMissingUnknownColumns(t *testing.T) {
	tbl := makeTable(t, []string{"a"}, []types.Row{{types.String("x")}})
	_, warnings := HandleMissing(tbl, Options{Strategy: StrategyDrop, Columns: []string{"nope"}})
	assert.NotEmpty(t, warnings)
}
