package parser

import (
	"fmt"

	"github.com/grendeldb/grendel/internal/db"
	"github.com/grendeldb/grendel/internal/schema"
	"github.com/grendeldb/grendel/internal/table"
	"github.com/grendeldb/grendel/internal/types"
)

// Statement is an executable SQL statement. Execute routes it to the
// database; literal typing and coercion happen here so the engine only ever
// sees already-typed values.
type Statement interface {
	Execute(d *db.Database) (any, error)
}

// ColumnDef is one column in a CREATE TABLE statement.
type ColumnDef struct {
	Name    string
	Type    types.ValueType
	NotNull bool
	Unique  bool
	Default *types.Value
}

// CreateTableStatement represents a CREATE TABLE statement.
type CreateTableStatement struct {
	Table   string
	Columns []ColumnDef
}

// InsertStatement represents an INSERT statement with named columns.
type InsertStatement struct {
	Table   string
	Columns []string
	Values  []types.Value
}

// SelectStatement represents a SELECT statement.
type SelectStatement struct {
	Table   string
	Columns []string // nil means *
	Where   map[string]types.Value
}

// SelectResult is what a SELECT evaluates to: the projected column names
// and the matching rows in ascending row id order.
type SelectResult struct {
	Columns []string
	Rows    []table.Row
}

// UpdateStatement represents an UPDATE statement.
type UpdateStatement struct {
	Table string
	Set   map[string]types.Value
	Where map[string]types.Value
}

// DeleteStatement represents a DELETE statement.
type DeleteStatement struct {
	Table string
	Where map[string]types.Value
}

// DropTableStatement represents a DROP TABLE statement.
type DropTableStatement struct {
	Table string
}

// RenameTableStatement represents ALTER TABLE ... RENAME TO.
type RenameTableStatement struct {
	Table   string
	NewName string
}

// ShowTablesStatement represents SHOW TABLES.
type ShowTablesStatement struct{}

// Execute creates the table.
func (s *CreateTableStatement) Execute(d *db.Database) (any, error) {
	cols := make([]schema.Column, 0, len(s.Columns))
	for _, def := range s.Columns {
		b := schema.NewColumnBuilder(def.Name, def.Type)
		if def.NotNull {
			b.NotNull()
		}
		if def.Unique {
			b.Unique()
		}
		if def.Default != nil {
			b.Default(coerce(*def.Default, def.Type))
		}
		col, err := b.Build()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	sch, err := schema.NewSchema(cols)
	if err != nil {
		return nil, err
	}
	return nil, d.CreateTable(s.Table, sch)
}

// Execute inserts one row and returns the assigned row id.
func (s *InsertStatement) Execute(d *db.Database) (any, error) {
	if len(s.Columns) != len(s.Values) {
		return nil, fmt.Errorf("INSERT names %d columns but supplies %d values", len(s.Columns), len(s.Values))
	}
	tbl, err := d.Table(s.Table)
	if err != nil {
		return nil, err
	}

	sch := tbl.Schema()
	values := make(map[string]types.Value, len(s.Columns))
	for i, name := range s.Columns {
		values[name] = coerceFor(sch, name, s.Values[i])
	}

	return tbl.AddRow(values)
}

// Execute runs the scan and materializes the matching rows.
func (s *SelectStatement) Execute(d *db.Database) (any, error) {
	tbl, err := d.Table(s.Table)
	if err != nil {
		return nil, err
	}

	sch := tbl.Schema()
	columns := s.Columns
	if columns == nil {
		columns = sch.Names()
	} else {
		for _, name := range columns {
			if !sch.Has(name) {
				return nil, &table.UnknownColumnError{Column: name}
			}
		}
	}

	pred, err := wherePredicate(sch, s.Where)
	if err != nil {
		return nil, err
	}

	result := &SelectResult{Columns: columns}
	for row := range tbl.Scan(pred) {
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

// Execute updates every matching row atomically and returns how many
// changed. Either all matching rows take the new values or, when any row
// fails validation or uniqueness, none do.
func (s *UpdateStatement) Execute(d *db.Database) (any, error) {
	tbl, err := d.Table(s.Table)
	if err != nil {
		return nil, err
	}

	sch := tbl.Schema()
	set := make(map[string]types.Value, len(s.Set))
	for name, v := range s.Set {
		set[name] = coerceFor(sch, name, v)
	}

	pred, err := wherePredicate(sch, s.Where)
	if err != nil {
		return nil, err
	}

	return tbl.UpdateRows(pred, set)
}

// Execute deletes every matching row and returns how many went away.
func (s *DeleteStatement) Execute(d *db.Database) (any, error) {
	tbl, err := d.Table(s.Table)
	if err != nil {
		return nil, err
	}

	pred, err := wherePredicate(tbl.Schema(), s.Where)
	if err != nil {
		return nil, err
	}

	var ids []table.RowID
	for row := range tbl.Scan(pred) {
		ids = append(ids, row.ID)
	}
	for _, id := range ids {
		if err := tbl.DeleteRow(id); err != nil {
			return nil, err
		}
	}
	return len(ids), nil
}

// Execute drops the table.
func (s *DropTableStatement) Execute(d *db.Database) (any, error) {
	return nil, d.DropTable(s.Table)
}

// Execute renames the table.
func (s *RenameTableStatement) Execute(d *db.Database) (any, error) {
	return nil, d.RenameTable(s.Table, s.NewName)
}

// Execute lists table names in ascending order.
func (s *ShowTablesStatement) Execute(d *db.Database) (any, error) {
	return d.TableNames(), nil
}

// wherePredicate compiles an equality WHERE clause into a pure row
// predicate, coercing each literal to its column's type.
func wherePredicate(sch schema.Schema, where map[string]types.Value) (table.Predicate, error) {
	if len(where) == 0 {
		return nil, nil
	}
	conditions := make(map[string]types.Value, len(where))
	for name, v := range where {
		if !sch.Has(name) {
			return nil, &table.UnknownColumnError{Column: name}
		}
		conditions[name] = coerceFor(sch, name, v)
	}
	return func(r table.Row) bool {
		for name, want := range conditions {
			got, ok := r.Get(name)
			if !ok || !got.Equal(want) {
				return false
			}
		}
		return true
	}, nil
}

// coerceFor widens an integer literal destined for a FLOAT column. Anything
// else passes through untouched and is judged by row validation.
func coerceFor(sch schema.Schema, column string, v types.Value) types.Value {
	col, ok := sch.Column(column)
	if !ok {
		return v
	}
	return coerce(v, col.Type)
}

func coerce(v types.Value, target types.ValueType) types.Value {
	if v.Type() == types.TypeInt && target == types.TypeFloat {
		return types.NewFloat(float64(v.Int()))
	}
	return v
}
