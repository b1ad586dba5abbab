package table

import (
	"github.com/grendeldb/grendel/internal/schema"
	"github.com/grendeldb/grendel/internal/types"
)

// RowID identifies a row within one table. IDs are assigned monotonically
// and never reused, even after deletions.
type RowID int64

// Row is a single record: one cell per schema column, no extras, no
// omissions. Rows handed out by a table are copies; mutating them does not
// touch the table.
type Row struct {
	ID    RowID
	Cells map[string]types.Value
}

// NewRow assembles a row for the given schema. For each column the supplied
// value wins; absent that, the column default; absent that, the null marker
// when the column is nullable. Defaults are materialized into explicit cells
// here, so the result always has exactly one cell per column. The assembled
// row is validated before being returned.
func NewRow(s schema.Schema, supplied map[string]types.Value) (Row, error) {
	for name := range supplied {
		if !s.Has(name) {
			return Row{}, &UnknownColumnError{Column: name}
		}
	}

	cells := make(map[string]types.Value, s.Len())
	for _, col := range s.Columns() {
		if v, ok := supplied[col.Name]; ok {
			cells[col.Name] = v
			continue
		}
		if def, ok := col.Default(); ok {
			cells[col.Name] = def
			continue
		}
		if col.NotNull {
			return Row{}, &MissingRequiredValueError{Column: col.Name}
		}
		cells[col.Name] = types.Null()
	}

	row := Row{Cells: cells}
	if err := row.Validate(s); err != nil {
		return Row{}, err
	}
	return row, nil
}

// Validate checks every cell against the schema: the cell's kind must match
// the column type (the null marker passes typing), and not-null columns must
// not hold the null marker. Uniqueness needs table-wide context and is
// checked by Table, not here. Validate is pure and usable for dry runs.
func (r Row) Validate(s schema.Schema) error {
	for name := range r.Cells {
		if !s.Has(name) {
			return &UnknownColumnError{Column: name}
		}
	}
	for _, col := range s.Columns() {
		v, ok := r.Cells[col.Name]
		if !ok {
			return &MissingRequiredValueError{Column: col.Name}
		}
		if v.IsNull() {
			if col.NotNull {
				return &NullViolationError{Column: col.Name}
			}
			continue
		}
		if v.Type() != col.Type {
			return &TypeMismatchError{Column: col.Name, Expected: col.Type, Actual: v.Type()}
		}
	}
	return nil
}

// Get returns the named cell.
func (r Row) Get(name string) (types.Value, bool) {
	v, ok := r.Cells[name]
	return v, ok
}

func (r Row) clone() Row {
	cells := make(map[string]types.Value, len(r.Cells))
	for k, v := range r.Cells {
		cells[k] = v
	}
	return Row{ID: r.ID, Cells: cells}
}
