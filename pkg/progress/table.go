// Package progress reconstructs the iteration log of a solver run as an
// ordered table of string cells.
package progress

import (
	"encoding/json"
	"fmt"
)

// Column names shared by every dialect schema.
const (
	Node          = "Node"
	NodesLeft     = "NodesLeft"
	BestInteger   = "BestInteger"
	CutsBestBound = "CutsBestBound"
	Time          = "Time"
)

// Row is one progress snapshot. An empty cell means the value is absent on
// that line.
type Row []string

// Table is the progress trace of one run. Rows are kept in emission order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable returns an empty table with the given schema.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, Rows: []Row{}}
}

// Len returns the number of rows. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Index returns the position of a column or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Append adds a row. Short rows are padded with absent cells and long rows
// are rejected.
func (t *Table) Append(cells ...string) error {
	if len(cells) > len(t.Columns) {
		return fmt.Errorf("row has %d cells, schema has %d columns", len(cells), len(t.Columns))
	}
	row := make(Row, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	return nil
}

// Value returns the cell at row i in the named column. Unknown columns and
// out of range rows read as absent.
func (t *Table) Value(i int, name string) string {
	col := t.Index(name)
	if col < 0 || i < 0 || i >= t.Len() {
		return ""
	}
	return t.Rows[i][col]
}

// Column returns a copy of every cell of the named column, or nil.
func (t *Table) Column(name string) []string {
	col := t.Index(name)
	if col < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[col]
	}
	return out
}

// SetColumn replaces or appends a column. values must have one entry per row.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}
	col := t.Index(name)
	if col < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], values[i])
		}
		return nil
	}
	for i := range t.Rows {
		t.Rows[i][col] = values[i]
	}
	return nil
}

// Records returns the rows as column-keyed maps, skipping absent cells.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, t.Len())
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for i, c := range t.Columns {
			if r[i] != "" {
				rec[c] = r[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

// MarshalJSON always emits both keys, with empty arrays for a table that
// has no rows.
func (t *Table) MarshalJSON() ([]byte, error) {
	type plain Table
	if t == nil {
		return json.Marshal(plain{Columns: []string{}, Rows: []Row{}})
	}
	p := plain(*t)
	if p.Columns == nil {
		p.Columns = []string{}
	}
	if p.Rows == nil {
		p.Rows = []Row{}
	}
	return json.Marshal(p)
}
