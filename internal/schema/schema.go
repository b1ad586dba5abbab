// Package schema defines columns, their constraints and the ordered column
// set governing a table's rows.
package schema

import (
	"fmt"
)

// ErrEmptySchema is returned when a schema is built with no columns.
var ErrEmptySchema = fmt.Errorf("schema must have at least one column")

// DuplicateColumnError is returned when two columns share a name.
type DuplicateColumnError struct {
	Name string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column name: %s", e.Name)
}

// Schema is the ordered column set for one table. A Schema obtained from
// NewSchema is always valid; Validate exists for callers assembling one by
// hand.
type Schema struct {
	columns []Column
}

// NewSchema builds a schema from the given columns, in order. It fails with
// ErrEmptySchema or a DuplicateColumnError; a schema that fails validation
// is never returned.
func NewSchema(columns []Column) (Schema, error) {
	s := Schema{columns: append([]Column(nil), columns...)}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Validate checks structural well-formedness: at least one column, no
// duplicate names. It is pure and callable repeatedly.
func (s Schema) Validate() error {
	if len(s.columns) == 0 {
		return ErrEmptySchema
	}
	seen := make(map[string]bool, len(s.columns))
	for _, col := range s.columns {
		if col.Name == "" {
			return ErrEmptyColumnName
		}
		if seen[col.Name] {
			return &DuplicateColumnError{Name: col.Name}
		}
		seen[col.Name] = true
	}
	return nil
}

// Columns returns the columns in declaration order. The slice is a copy.
func (s Schema) Columns() []Column {
	return append([]Column(nil), s.columns...)
}

// Column looks a column up by name.
func (s Schema) Column(name string) (Column, bool) {
	for _, col := range s.columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Has reports whether a column of that name exists.
func (s Schema) Has(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// Names returns the column names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.columns)
}
