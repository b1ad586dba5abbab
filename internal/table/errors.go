package table

import (
	"fmt"

	"github.com/grendeldb/grendel/internal/types"
)

// MissingRequiredValueError is returned when a not-null column without a
// default is omitted from a new row.
type MissingRequiredValueError struct {
	Column string
}

func (e *MissingRequiredValueError) Error() string {
	return fmt.Sprintf("missing required value for column %s", e.Column)
}

// TypeMismatchError is returned when a cell's kind does not match its
// column's declared type.
type TypeMismatchError struct {
	Column   string
	Expected types.ValueType
	Actual   types.ValueType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for column %s: expected %s, got %s", e.Column, e.Expected, e.Actual)
}

// NullViolationError is returned when a not-null column holds the null
// marker.
type NullViolationError struct {
	Column string
}

func (e *NullViolationError) Error() string {
	return fmt.Sprintf("null value in column %s violates not-null constraint", e.Column)
}

// UnknownColumnError is returned when supplied values name a column the
// schema does not have.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column: %s", e.Column)
}

// UniqueViolationError is returned when a mutation would leave two rows
// holding equal non-null values in a unique column.
type UniqueViolationError struct {
	Column string
	Value  types.Value
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("duplicate value %s in unique column %s", e.Value.Literal(), e.Column)
}

// RowNotFoundError is returned when the given row id is not in the table.
type RowNotFoundError struct {
	ID RowID
}

func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("row %d not found", e.ID)
}

// SchemaMigrationError is returned when UpdateSchema fails because an
// existing row does not satisfy the new schema. The table is left untouched.
type SchemaMigrationError struct {
	RowID RowID
	Cause error
}

func (e *SchemaMigrationError) Error() string {
	return fmt.Sprintf("schema migration failed at row %d: %v", e.RowID, e.Cause)
}

func (e *SchemaMigrationError) Unwrap() error {
	return e.Cause
}
