package models

import "strings"

// Table is a named table with an explicit ordered header and data rows.
// Rows are padded to the header width when loaded.
type Table struct {
	// Name is the resolved sheet name the table was loaded from.
	Name string `json:"name"`
	// Header is the ordered list of column names.
	Header []string `json:"header"`
	// Rows contains the data rows (header excluded).
	Rows [][]string `json:"rows"`
}

// ColumnIndex returns the index of the named column, matching
// case-insensitively after trimming whitespace, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// HeaderEquals reports whether other has the same column names in the
// same order. Names are compared after trimming whitespace.
func (t *Table) HeaderEquals(other []string) bool {
	if len(t.Header) != len(other) {
		return false
	}
	for i, h := range t.Header {
		if strings.TrimSpace(h) != strings.TrimSpace(other[i]) {
			return false
		}
	}
	return true
}

// AppendColumn adds a column with the given name, filling every row
// with value.
func (t *Table) AppendColumn(name, value string) {
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// DropColumns removes the columns at the given indices.
func (t *Table) DropColumns(indices ...int) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	keep := func(row []string) []string {
		out := make([]string, 0, len(row)-len(drop))
		for i, v := range row {
			if !drop[i] {
				out = append(out, v)
			}
		}
		return out
	}

	t.Header = keep(t.Header)
	for i, row := range t.Rows {
		t.Rows[i] = keep(row)
	}
}

// FilterRows keeps only the rows for which keep returns true.
func (t *Table) FilterRows(keep func(row []string) bool) {
	out := t.Rows[:0]
	for _, row := range t.Rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	t.Rows = out
}

// ForwardFill replaces empty cells in the given columns with the last
// non-empty value seen above them.
func (t *Table) ForwardFill(indices ...int) {
	for _, col := range indices {
		if col < 0 {
			continue
		}
		last := ""
		for _, row := range t.Rows {
			if strings.TrimSpace(row[col]) == "" {
				row[col] = last
			} else {
				last = row[col]
			}
		}
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() Table {
	out := Table{
		Name:   t.Name,
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
