// Package table provides a minimal column-oriented table used as input for
// report compilation. Columns are ordered and addressed by name, cell values
// are untyped and a nil cell marks a missing value.
package table

import (
	"fmt"
)

// Column is a named, ordered list of cell values. A nil value marks a
// missing cell.
type Column struct {
	Name   string
	Values []any
}

// Table is an ordered collection of equally sized columns.
type Table struct {
	names []string
	cells map[string][]any
	rows  int
}

// New creates a table from the given columns. All columns must have unique
// names and the same number of values.
func New(columns ...Column) (*Table, error) {
	t := &Table{cells: make(map[string][]any, len(columns))}
	for i, col := range columns {
		if _, exists := t.cells[col.Name]; exists {
			return nil, fmt.Errorf("table: duplicate column %q", col.Name)
		}
		if i == 0 {
			t.rows = len(col.Values)
		} else if len(col.Values) != t.rows {
			return nil, fmt.Errorf(
				"table: column %q has %d values, expected %d",
				col.Name, len(col.Values), t.rows,
			)
		}
		t.names = append(t.names, col.Name)
		t.cells[col.Name] = col.Values
	}
	return t, nil
}

// MustNew is like New but panics on error, intended for tests and fixtures.
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the ordered column names as a copy.
func (t *Table) Columns() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	return t.rows
}

// NumColumns returns the number of columns in the table.
func (t *Table) NumColumns() int {
	return len(t.names)
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// Column returns a copy of the values of the named column.
func (t *Table) Column(name string) ([]any, error) {
	values, ok := t.cells[name]
	if !ok {
		return nil, fmt.Errorf("table: unknown column %q", name)
	}
	out := make([]any, len(values))
	copy(out, values)
	return out, nil
}

// Select returns a new table containing only the given columns in the given
// order. The returned table holds independent copies of the cell values.
func (t *Table) Select(names []string) (*Table, error) {
	columns := make([]Column, 0, len(names))
	for _, name := range names {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, Column{Name: name, Values: values})
	}
	return New(columns...)
}

// IsMissing reports whether a cell value counts as missing.
func IsMissing(value any) bool {
	return value == nil
}
