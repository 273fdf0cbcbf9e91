package table

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
)

// ErrUnknownColumn is returned when a column name is not part of the table.
var ErrUnknownColumn = errors.New("unknown column")

// Record is a single row keyed by internal column name.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	return maps.Clone(r)
}

// IsNull reports whether the cell for column is missing, nil or NaN.
func (r Record) IsNull(column string) bool {
	v, ok := r[column]
	if !ok || v == nil {
		return true
	}
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// Table is an ordered collection of records with a fixed column order.
type Table struct {
	columns []string
	rows    []Record
}

// New creates a table with the given column order and rows.
// Rows are used as-is; the caller must not retain them.
func New(columns []string, rows []Record) *Table {
	if rows == nil {
		rows = []Record{}
	}
	return &Table{
		columns: slices.Clone(columns),
		rows:    rows,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns a copy of the column names in table order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.columns, name)
}

// Row returns the record at index i. The record is the live row, not a copy.
func (t *Table) Row(i int) Record {
	return t.rows[i]
}

// All iterates rows in order.
func (t *Table) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range t.rows {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Column returns the values of a column in row order.
func (t *Table) Column(name string) ([]any, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	values := make([]any, len(t.rows))
	for i, r := range t.rows {
		values[i] = r[name]
	}
	return values, nil
}

// SetColumn adds or replaces a column in place.
//
// len(values) must equal Len(). An empty table accepts any length and
// grows to hold the values, one record per value.
func (t *Table) SetColumn(name string, values []any) error {
	if len(t.rows) == 0 && len(values) > 0 {
		t.rows = make([]Record, len(values))
		for i := range t.rows {
			t.rows[i] = Record{}
		}
	}
	if len(values) != len(t.rows) {
		return fmt.Errorf("column %q: got %d values for %d rows", name, len(values), len(t.rows))
	}
	for i, r := range t.rows {
		r[name] = values[i]
	}
	if !t.HasColumn(name) {
		t.columns = append(t.columns, name)
	}
	return nil
}

// DropColumns removes columns in place.
// All names are checked first; nothing is removed if any is unknown.
func (t *Table) DropColumns(names ...string) error {
	for _, name := range names {
		if !t.HasColumn(name) {
			return fmt.Errorf("drop columns: %w: %q", ErrUnknownColumn, name)
		}
	}
	t.columns = slices.DeleteFunc(t.columns, func(c string) bool {
		return slices.Contains(names, c)
	})
	for _, r := range t.rows {
		for _, name := range names {
			delete(r, name)
		}
	}
	return nil
}

// Where returns a new table holding clones of the records for which keep
// returns true.
func (t *Table) Where(keep func(Record) bool) *Table {
	out := make([]Record, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return New(t.columns, out)
}

// Head returns a new table with at most the first n rows.
// n <= 0 returns a copy of the whole table.
func (t *Table) Head(n int) *Table {
	if n <= 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([]Record, n)
	for i := range n {
		out[i] = t.rows[i].Clone()
	}
	return New(t.columns, out)
}

// Clone returns a deep copy of the table structure (cell values are shared).
func (t *Table) Clone() *Table {
	return t.Head(0)
}

// Rename renames columns in place using an old → new mapping.
// Names absent from the mapping are left alone.
func (t *Table) Rename(mapping map[string]string) error {
	seen := make(map[string]bool, len(t.columns))
	renamed := make([]string, len(t.columns))
	for i, c := range t.columns {
		n, ok := mapping[c]
		if !ok {
			n = c
		}
		if seen[n] {
			return fmt.Errorf("rename: duplicate column %q", n)
		}
		seen[n] = true
		renamed[i] = n
	}
	for _, r := range t.rows {
		moved := make(Record, len(r))
		for k, v := range r {
			if n, ok := mapping[k]; ok {
				moved[n] = v
			} else {
				moved[k] = v
			}
		}
		clear(r)
		maps.Copy(r, moved)
	}
	t.columns = renamed
	return nil
}
