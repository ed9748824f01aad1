// Package frame holds the row-aligned feature tables passed between pipeline stages.
package frame

import (
	"fmt"
)

// SchemaError reports a missing, mistyped or misaligned column
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on column %q: %s", e.Column, e.Reason)
}

// Table is an ordered set of equal-length columns
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable builds a table from columns that must share the same length and have unique names.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{index: map[string]int{}}
	for _, c := range columns {
		if err := t.Append(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Append adds a column at the end of the table.
func (t *Table) Append(c *Column) error {
	if _, ok := t.index[c.Name]; ok {
		return &SchemaError{Column: c.Name, Reason: "duplicate column"}
	}
	if len(t.columns) > 0 && c.Len() != t.rows {
		return &SchemaError{Column: c.Name, Reason: fmt.Sprintf("has %d rows, table has %d", c.Len(), t.rows)}
	}
	t.rows = c.Len()
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

func (t *Table) Rows() int {
	return t.rows
}

func (t *Table) Columns() []*Column {
	return t.columns
}

func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &SchemaError{Column: name, Reason: "column not found"}
	}
	return t.columns[i], nil
}

// Select returns a table restricted to the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	columns := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return NewTable(columns...)
}

// Filter keeps the rows for which keep returns true, preserving their order.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var indices []int
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			indices = append(indices, i)
		}
	}
	return t.Take(indices)
}

// Take returns the rows at the given indices.
func (t *Table) Take(indices []int) *Table {
	result := &Table{index: make(map[string]int, len(t.columns)), rows: len(indices)}
	for i, c := range t.columns {
		result.index[c.Name] = i
		result.columns = append(result.columns, c.take(indices))
	}
	return result
}

// HConcat joins tables side by side. All tables must have the same number of rows and
// no column name may appear twice.
func HConcat(tables ...*Table) (*Table, error) {
	result, _ := NewTable()
	for _, t := range tables {
		for _, c := range t.columns {
			if err := result.Append(c); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}
