// Package standardize holds the stateless field and schema transforms
// applied ahead of grouping and validation: canonical column keys,
// blank-to-missing conversion, and per-field format standardization
// for phone, email, address, and company values.
package standardize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/steveyegge/scour/internal/types"
)

// addressAbbrev maps long street designators (and their lowercase
// abbreviations) to the canonical short form.
var addressAbbrev = []struct{ from, to string }{
	{"street", "St"}, {"st", "St"},
	{"avenue", "Ave"}, {"ave", "Ave"},
	{"road", "Rd"}, {"rd", "Rd"},
	{"lane", "Ln"}, {"ln", "Ln"},
	{"drive", "Dr"}, {"dr", "Dr"},
	{"boulevard", "Blvd"}, {"blvd", "Blvd"},
}

var addressPatterns = buildAddressPatterns()

func buildAddressPatterns() []struct {
	re *regexp.Regexp
	to string
} {
	out := make([]struct {
		re *regexp.Regexp
		to string
	}, len(addressAbbrev))
	for i, m := range addressAbbrev {
		out[i].re = regexp.MustCompile(`\b` + m.from + `\b`)
		out[i].to = m.to
	}
	return out
}

// Columns returns a new table whose column headers are normalized to
// canonical field keys. Two headers collapsing to the same key is a
// fatal shape error: downstream field addressing would be ambiguous.
func Columns(tbl *types.Table) (*types.Table, error) {
	cols := make([]string, len(tbl.Columns))
	seen := make(map[string]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		key := types.NormalizeKey(c)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("columns %q and %q both normalize to %q: %w",
				prev, c, key, types.ErrPipelineFailure)
		}
		seen[key] = c
		cols[i] = key
	}
	out := &types.Table{Columns: cols}
	out.Rows = make([]types.Row, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out.Rows[i] = row.Clone()
	}
	return out, nil
}

// BlankToMissing returns a new table with every empty or
// whitespace-only string cell converted to the missing marker.
// Absence is represented by missing, never by an empty string.
func BlankToMissing(tbl *types.Table) *types.Table {
	out := tbl.CloneSchema()
	out.Rows = make([]types.Row, len(tbl.Rows))
	for i, row := range tbl.Rows {
		nr := row.Clone()
		for j, v := range nr {
			if s, ok := v.AsString(); ok && strings.TrimSpace(s) == "" {
				nr[j] = types.Missing()
			}
		}
		out.Rows[i] = nr
	}
	return out
}

// Formats returns a new table with the standard per-field transforms
// applied to whichever of the address, phone, email, and company
// columns are present. Absent columns are simply skipped.
func Formats(tbl *types.Table) *types.Table {
	out := tbl.CloneSchema()
	out.Rows = make([]types.Row, len(tbl.Rows))
	addrIdx := tbl.ColumnIndex("address")
	phoneIdx := tbl.ColumnIndex("phone")
	emailIdx := tbl.ColumnIndex("email")
	companyIdx := tbl.ColumnIndex("company")
	for i, row := range tbl.Rows {
		nr := row.Clone()
		if addrIdx >= 0 {
			nr[addrIdx] = applyString(nr[addrIdx], Address)
		}
		if phoneIdx >= 0 {
			nr[phoneIdx] = standardizePhoneValue(nr[phoneIdx])
		}
		if emailIdx >= 0 {
			nr[emailIdx] = applyString(nr[emailIdx], Email)
		}
		if companyIdx >= 0 {
			nr[companyIdx] = applyString(nr[companyIdx], Company)
		}
		out.Rows[i] = nr
	}
	return out
}

func applyString(v types.Value, f func(string) string) types.Value {
	s, ok := v.AsString()
	if !ok {
		return v
	}
	s = f(s)
	if strings.TrimSpace(s) == "" {
		return types.Missing()
	}
	return types.String(s)
}

// Address lowercases, abbreviates street designators, and title-cases
// the result. The transform is a fixed point: applying it twice yields
// the same string.
func Address(s string) string {
	s = strings.ToLower(s)
	for _, p := range addressPatterns {
		s = p.re.ReplaceAllString(s, p.to)
	}
	return Title(strings.ToLower(s))
}

// Phone strips everything but digits and renders the leading seven as
// NNN-NNNN. Fewer than seven digits is not a usable number and maps to
// empty (the caller converts that to missing).
func Phone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 7 {
		return ""
	}
	return d[:3] + "-" + d[3:7]
}

func standardizePhoneValue(v types.Value) types.Value {
	if v.IsMissing() {
		return v
	}
	p := Phone(v.String())
	if p == "" {
		return types.Missing()
	}
	return types.String(p)
}

// Email lowercases and trims the address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Company trims and title-cases the name.
func Company(s string) string {
	return Title(strings.TrimSpace(s))
}

// Title capitalizes the first letter of each space-separated word,
// lowercasing the rest. Idempotent by construction.
func Title(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
