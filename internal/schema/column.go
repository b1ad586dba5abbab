package schema

import (
	"errors"
	"fmt"

	"github.com/grendeldb/grendel/internal/types"
)

// ErrEmptyColumnName is returned when a column is built without a name.
var ErrEmptyColumnName = errors.New("column name must not be empty")

// DefaultTypeError is returned when a column's default value does not match
// its declared type.
type DefaultTypeError struct {
	Column   string
	Expected types.ValueType
	Actual   types.ValueType
}

func (e *DefaultTypeError) Error() string {
	return fmt.Sprintf("default value for column %s has type %s, want %s", e.Column, e.Actual, e.Expected)
}

// Column describes one field of a table: its name, declared value type and
// constraint set. Columns are immutable once attached to a schema; replacing
// one goes through Table.UpdateSchema.
type Column struct {
	Name    string
	Type    types.ValueType
	NotNull bool
	Unique  bool

	// def is nil when the column has no default.
	def *types.Value
}

// NewColumn constructs an unconstrained column.
func NewColumn(name string, typ types.ValueType) (Column, error) {
	if name == "" {
		return Column{}, ErrEmptyColumnName
	}
	return Column{Name: name, Type: typ}, nil
}

// Default returns the column's default value and whether one is set.
func (c Column) Default() (types.Value, bool) {
	if c.def == nil {
		return types.Null(), false
	}
	return *c.def, true
}

// ColumnBuilder assembles a column and its constraints fluently. Build
// reports an error rather than each intermediate step.
type ColumnBuilder struct {
	col Column
	err error
}

// NewColumnBuilder starts a builder for a column of the given name and type.
func NewColumnBuilder(name string, typ types.ValueType) *ColumnBuilder {
	b := &ColumnBuilder{col: Column{Name: name, Type: typ}}
	if name == "" {
		b.err = ErrEmptyColumnName
	}
	return b
}

// NotNull marks the column as rejecting null cells.
func (b *ColumnBuilder) NotNull() *ColumnBuilder {
	b.col.NotNull = true
	return b
}

// Unique marks the column as table-wide unique.
func (b *ColumnBuilder) Unique() *ColumnBuilder {
	b.col.Unique = true
	return b
}

// Default sets the value materialized into cells the caller omits. The
// value's kind must match the column type; a later call overwrites an
// earlier one.
func (b *ColumnBuilder) Default(v types.Value) *ColumnBuilder {
	if b.err == nil && v.Type() != b.col.Type {
		b.err = &DefaultTypeError{Column: b.col.Name, Expected: b.col.Type, Actual: v.Type()}
		return b
	}
	b.col.def = &v
	return b
}

// Build returns the assembled column or the first error recorded.
func (b *ColumnBuilder) Build() (Column, error) {
	if b.err != nil {
		return Column{}, b.err
	}
	return b.col, nil
}

// MustBuild is Build for statically known-good columns, e.g. in tests.
func (b *ColumnBuilder) MustBuild() Column {
	col, err := b.Build()
	if err != nil {
		panic(err)
	}
	return col
}
