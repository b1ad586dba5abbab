package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grendeldb/grendel/internal/schema"
	"github.com/grendeldb/grendel/internal/types"
)

func TestColumnBuilderConstraints(t *testing.T) {
	col, err := schema.NewColumnBuilder("id", types.TypeInt).
		NotNull().
		Unique().
		Build()
	require.NoError(t, err)

	assert.Equal(t, "id", col.Name)
	assert.Equal(t, types.TypeInt, col.Type)
	assert.True(t, col.NotNull)
	assert.True(t, col.Unique)
	_, hasDefault := col.Default()
	assert.False(t, hasDefault)
}

func TestColumnBuilderValidDefault(t *testing.T) {
	col, err := schema.NewColumnBuilder("age", types.TypeInt).
		Default(types.NewInt(18)).
		Build()
	require.NoError(t, err)

	def, ok := col.Default()
	assert.True(t, ok)
	assert.True(t, def.Equal(types.NewInt(18)))
}

func TestColumnBuilderDefaultTypeMismatch(t *testing.T) {
	_, err := schema.NewColumnBuilder("age", types.TypeInt).
		Default(types.NewText("eighteen")).
		Build()

	var mismatch *schema.DefaultTypeError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "age", mismatch.Column)
	assert.Equal(t, types.TypeInt, mismatch.Expected)
	assert.Equal(t, types.TypeText, mismatch.Actual)
}

func TestColumnBuilderOverwritesDefault(t *testing.T) {
	col, err := schema.NewColumnBuilder("status", types.TypeInt).
		Default(types.NewInt(0)).
		Default(types.NewInt(1)).
		Build()
	require.NoError(t, err)

	def, ok := col.Default()
	assert.True(t, ok)
	assert.True(t, def.Equal(types.NewInt(1)))
}

func TestColumnEmptyName(t *testing.T) {
	_, err := schema.NewColumn("", types.TypeText)
	assert.ErrorIs(t, err, schema.ErrEmptyColumnName)

	_, err = schema.NewColumnBuilder("", types.TypeText).Build()
	assert.ErrorIs(t, err, schema.ErrEmptyColumnName)
}

func TestNewSchemaValid(t *testing.T) {
	s, err := schema.NewSchema([]schema.Column{
		schema.NewColumnBuilder("id", types.TypeInt).MustBuild(),
		schema.NewColumnBuilder("name", types.TypeText).MustBuild(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"id", "name"}, s.Names())
	assert.True(t, s.Has("name"))
	assert.False(t, s.Has("email"))

	col, ok := s.Column("id")
	assert.True(t, ok)
	assert.Equal(t, types.TypeInt, col.Type)
}

func TestNewSchemaDuplicateColumn(t *testing.T) {
	_, err := schema.NewSchema([]schema.Column{
		schema.NewColumnBuilder("id", types.TypeInt).MustBuild(),
		schema.NewColumnBuilder("id", types.TypeText).MustBuild(),
	})

	var dup *schema.DuplicateColumnError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "id", dup.Name)
}

func TestNewSchemaEmpty(t *testing.T) {
	_, err := schema.NewSchema(nil)
	assert.ErrorIs(t, err, schema.ErrEmptySchema)
}

func TestValidateIsPure(t *testing.T) {
	s, err := schema.NewSchema([]schema.Column{
		schema.NewColumnBuilder("id", types.TypeInt).MustBuild(),
	})
	require.NoError(t, err)

	assert.NoError(t, s.Validate())
	assert.NoError(t, s.Validate())
}
