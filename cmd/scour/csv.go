package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/steveyegge/scour/internal/types"
)

// loadTable reads a CSV file into an in-memory table. Every cell is
// read as a string; blank-to-missing conversion and type coercion are
// pipeline stages, not parsing behavior.
func loadTable(path string) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are padded by AppendRow
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no header row", path)
	}

	tbl, err := types.NewTable(records[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, rec := range records[1:] {
		row := make(types.Row, len(rec))
		for i, cell := range rec {
			row[i] = types.String(cell)
		}
		tbl.AppendRow(row)
	}
	return tbl, nil
}

// saveTable writes a table as CSV. Missing cells render as empty
// fields.
func saveTable(tbl *types.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tbl.Columns); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, row := range tbl.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
