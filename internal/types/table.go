package types

import (
	"fmt"
	"regexp"
	"strings"
)

var keyRuns = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey converts a raw column header to a canonical field key:
// lowercase, with runs of non-alphanumeric characters collapsed to a
// single underscore and leading/trailing underscores trimmed.
//
//	"Email Address" -> "email_address"
//	" Last-Purchase Date " -> "last_purchase_date"
func NormalizeKey(name string) string {
	key := keyRuns.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(key, "_")
}

// Row is one table row, aligned positionally with the table's columns.
type Row []Value

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// NonMissingCount returns the number of present cells, used to score
// record completeness when choosing a survivor from a duplicate group.
func (r Row) NonMissingCount() int {
	n := 0
	for _, v := range r {
		if !v.IsMissing() {
			n++
		}
	}
	return n
}

// Table is an in-memory column-ordered table of records. Tables are
// treated as immutable once captured by a pipeline stage: every stage
// reads one table and produces a new one.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column set.
// It returns an error when two headers normalize to the same field key,
// since field keys must be unique within a schema.
func NewTable(columns []string) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	cols := make([]string, len(columns))
	for i, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = struct{}{}
		cols[i] = c
	}
	return &Table{Columns: cols}, nil
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of a column, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumns reports whether every named column is present.
func (t *Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if t.ColumnIndex(n) < 0 {
			return false
		}
	}
	return true
}

// Value returns the cell at (row, column), or missing when the column
// does not exist.
func (t *Table) Value(row int, column string) Value {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return Missing()
	}
	return t.Rows[row][idx]
}

// AppendRow adds a row, padding or truncating to the column count so
// ragged input can never corrupt the schema alignment.
func (t *Table) AppendRow(row Row) {
	aligned := make(Row, len(t.Columns))
	copy(aligned, row)
	t.Rows = append(t.Rows, aligned)
}

// CloneSchema returns an empty table sharing this table's column set.
func (t *Table) CloneSchema() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	return &Table{Columns: cols}
}

// Select returns a new table containing the given rows in the given
// order. Row contents are copied so later stages cannot alias cells.
func (t *Table) Select(rows []int) *Table {
	out := t.CloneSchema()
	out.Rows = make([]Row, 0, len(rows))
	for _, i := range rows {
		out.Rows = append(out.Rows, t.Rows[i].Clone())
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	rows := make([]int, len(t.Rows))
	for i := range rows {
		rows[i] = i
	}
	return t.Select(rows)
}

// Record binds one row to its column order for field-keyed access.
type Record struct {
	Columns []string
	Values  Row
}

// Record returns the record view of one row. The view shares backing
// storage with the table and must be treated as read-only.
func (t *Table) Record(row int) Record {
	return Record{Columns: t.Columns, Values: t.Rows[row]}
}

// Get returns the value for a field key, or missing when the record's
// schema has no such field.
func (r Record) Get(field string) Value {
	for i, c := range r.Columns {
		if c == field {
			return r.Values[i]
		}
	}
	return Missing()
}
