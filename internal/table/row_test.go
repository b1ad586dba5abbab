package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grendeldb/grendel/internal/schema"
	"github.com/grendeldb/grendel/internal/table"
	"github.com/grendeldb/grendel/internal/types"
)

func userSchema(t *testing.T) schema.Schema {
	t.Helper()
	s, err := schema.NewSchema([]schema.Column{
		schema.NewColumnBuilder("id", types.TypeInt).NotNull().Unique().MustBuild(),
		schema.NewColumnBuilder("name", types.TypeText).NotNull().MustBuild(),
		schema.NewColumnBuilder("status", types.TypeText).Default(types.NewText("active")).MustBuild(),
		schema.NewColumnBuilder("note", types.TypeText).MustBuild(),
	})
	require.NoError(t, err)
	return s
}

func TestNewRowMaterializesDefaultsAndNulls(t *testing.T) {
	s := userSchema(t)

	row, err := table.NewRow(s, map[string]types.Value{
		"id":   types.NewInt(1),
		"name": types.NewText("A"),
	})
	require.NoError(t, err)

	// Exactly one cell per column, defaults and nulls made explicit.
	assert.Len(t, row.Cells, s.Len())

	status, ok := row.Get("status")
	assert.True(t, ok)
	assert.True(t, status.Equal(types.NewText("active")))

	note, ok := row.Get("note")
	assert.True(t, ok)
	assert.True(t, note.IsNull())
}

func TestNewRowMissingRequiredValue(t *testing.T) {
	s := userSchema(t)

	_, err := table.NewRow(s, map[string]types.Value{
		"id": types.NewInt(1),
	})

	var missing *table.MissingRequiredValueError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "name", missing.Column)
}

func TestNewRowTypeMismatch(t *testing.T) {
	s := userSchema(t)

	_, err := table.NewRow(s, map[string]types.Value{
		"id":   types.NewText("one"),
		"name": types.NewText("A"),
	})

	var mismatch *table.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "id", mismatch.Column)
	assert.Equal(t, types.TypeInt, mismatch.Expected)
	assert.Equal(t, types.TypeText, mismatch.Actual)
}

func TestNewRowExplicitNullViolation(t *testing.T) {
	s := userSchema(t)

	// An explicitly supplied null is not replaced by a default and trips the
	// not-null check.
	_, err := table.NewRow(s, map[string]types.Value{
		"id":   types.NewInt(1),
		"name": types.Null(),
	})

	var null *table.NullViolationError
	require.ErrorAs(t, err, &null)
	assert.Equal(t, "name", null.Column)
}

func TestNewRowUnknownColumn(t *testing.T) {
	s := userSchema(t)

	_, err := table.NewRow(s, map[string]types.Value{
		"id":    types.NewInt(1),
		"name":  types.NewText("A"),
		"email": types.NewText("a@example.com"),
	})

	var unknown *table.UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "email", unknown.Column)
}

func TestValidateIsPureDryRun(t *testing.T) {
	s := userSchema(t)

	row, err := table.NewRow(s, map[string]types.Value{
		"id":   types.NewInt(1),
		"name": types.NewText("A"),
	})
	require.NoError(t, err)

	// Validate can be re-run independently of any insertion.
	assert.NoError(t, row.Validate(s))
	assert.NoError(t, row.Validate(s))
}
