package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrEmptyColumnName is returned when a column has no name.
	ErrEmptyColumnName = errors.New("empty column name")
	// ErrRaggedColumns is returned when columns differ in length.
	ErrRaggedColumns = errors.New("columns have different lengths")
	// ErrColumnNotFound is returned when a referenced column does not exist.
	ErrColumnNotFound = errors.New("column not found")
)

// Column is a named sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// Kind returns the widest kind found in the column, ignoring nulls.
// Int widens to float; anything mixed with text is text.
func (c Column) Kind() Kind {
	kind := KindNull
	for _, v := range c.Values {
		switch {
		case v.Kind == KindNull:
		case kind == KindNull:
			kind = v.Kind
		case kind == v.Kind:
		case v.Kind == KindText || kind == KindText:
			return KindText
		default:
			kind = KindFloat
		}
	}
	return kind
}

// Dataset is an ordered set of named, equal-length columns.
type Dataset struct {
	columns []Column
	index   map[string]int
}

// New validates the columns and builds a Dataset from them.
// The column slices are kept, not copied.
func New(columns ...Column) (*Dataset, error) {
	ds := &Dataset{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column #%d: %w", i+1, ErrEmptyColumnName)
		}
		if _, exists := ds.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		if len(col.Values) != len(columns[0].Values) {
			return nil, fmt.Errorf("%w: %q has %d rows, %q has %d",
				ErrRaggedColumns, col.Name, len(col.Values), columns[0].Name, len(columns[0].Values))
		}
		ds.index[col.Name] = i
	}
	return ds, nil
}

// FromRows builds a Dataset from a header and row-major records.
func FromRows(header []string, rows [][]Value) (*Dataset, error) {
	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{Name: name, Values: make([]Value, 0, len(rows))}
	}
	for r, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d values, header has %d",
				ErrRaggedColumns, r+1, len(row), len(header))
		}
		for i, v := range row {
			columns[i].Values = append(columns[i].Values, v)
		}
	}
	return New(columns...)
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice must not be modified.
func (d *Dataset) Columns() []Column {
	return d.columns
}

// Width returns the number of columns.
func (d *Dataset) Width() int {
	return len(d.columns)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// Has reports whether a column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the named column.
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return d.columns[i], nil
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for c, col := range d.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Head returns a Dataset holding at most the first n rows.
// A negative n yields an empty Dataset.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > d.Len() {
		n = d.Len()
	}
	columns := make([]Column, len(d.columns))
	for i, col := range d.columns {
		columns[i] = Column{Name: col.Name, Values: col.Values[:n]}
	}
	return &Dataset{columns: columns, index: d.index}
}

// Reorder returns a new Dataset whose columns follow names.
// Columns not listed are left out. The receiver is not modified.
func (d *Dataset) Reorder(names []string) (*Dataset, error) {
	columns, err := d.pick(names)
	if err != nil {
		return nil, err
	}
	return New(columns...)
}

// ReorderInPlace rearranges the receiver's columns to follow names.
// On error the receiver is left unchanged.
func (d *Dataset) ReorderInPlace(names []string) error {
	columns, err := d.pick(names)
	if err != nil {
		return err
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		index[c.Name] = i
	}
	d.columns = columns
	d.index = index
	return nil
}

func (d *Dataset) pick(names []string) ([]Column, error) {
	columns := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := d.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		columns = append(columns, d.columns[i])
	}
	return columns, nil
}
