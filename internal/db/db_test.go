package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grendeldb/grendel/internal/db"
	"github.com/grendeldb/grendel/internal/schema"
	"github.com/grendeldb/grendel/internal/table"
	"github.com/grendeldb/grendel/internal/testutil"
	"github.com/grendeldb/grendel/internal/types"
)

func testSchema(t *testing.T) schema.Schema {
	t.Helper()
	s, err := schema.NewSchema([]schema.Column{
		schema.NewColumnBuilder("id", types.TypeInt).NotNull().Unique().MustBuild(),
		schema.NewColumnBuilder("name", types.TypeText).NotNull().MustBuild(),
	})
	require.NoError(t, err)
	return s
}

func TestCreateTable(t *testing.T) {
	d := db.New(db.WithLogger(testutil.NewTestLogger(t)))

	require.NoError(t, d.CreateTable("users", testSchema(t)))

	tbl, err := d.Table("users")
	require.NoError(t, err)
	assert.Equal(t, "users", tbl.Name())
	assert.Equal(t, 0, tbl.Len())
}

func TestCreateTableDuplicate(t *testing.T) {
	d := db.New()
	require.NoError(t, d.CreateTable("users", testSchema(t)))

	err := d.CreateTable("users", testSchema(t))
	var exists *db.TableExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "users", exists.Name)
}

func TestCreateTableInvalidSchema(t *testing.T) {
	d := db.New()

	bad := schema.Schema{}
	err := d.CreateTable("users", bad)
	assert.ErrorIs(t, err, schema.ErrEmptySchema)

	_, err = d.Table("users")
	assert.Error(t, err)
}

func TestRenameTable(t *testing.T) {
	d := db.New()
	require.NoError(t, d.CreateTable("users", testSchema(t)))

	require.NoError(t, d.RenameTable("users", "people"))

	tbl, err := d.Table("people")
	require.NoError(t, err)
	assert.Equal(t, "people", tbl.Name())

	_, err = d.Table("users")
	var notFound *db.TableNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRenameTableErrors(t *testing.T) {
	d := db.New()
	require.NoError(t, d.CreateTable("a", testSchema(t)))
	require.NoError(t, d.CreateTable("b", testSchema(t)))

	var notFound *db.TableNotFoundError
	assert.ErrorAs(t, d.RenameTable("missing", "c"), &notFound)

	var exists *db.TableExistsError
	assert.ErrorAs(t, d.RenameTable("a", "b"), &exists)
}

func TestDropTable(t *testing.T) {
	d := db.New()
	require.NoError(t, d.CreateTable("users", testSchema(t)))

	require.NoError(t, d.DropTable("users"))
	_, err := d.Table("users")
	assert.Error(t, err)

	var notFound *db.TableNotFoundError
	assert.ErrorAs(t, d.DropTable("users"), &notFound)
}

func TestTablesEnumerationIsSorted(t *testing.T) {
	d := db.New()
	for _, name := range []string{"zebra", "apple", "mango"} {
		require.NoError(t, d.CreateTable(name, testSchema(t)))
	}

	assert.Equal(t, []string{"apple", "mango", "zebra"}, d.TableNames())

	var names []string
	for _, tbl := range d.Tables() {
		names = append(names, tbl.Name())
	}
	assert.Equal(t, []string{"apple", "mango", "zebra"}, names)
}

func TestAttach(t *testing.T) {
	d := db.New()

	tbl, err := table.New("users", testSchema(t))
	require.NoError(t, err)
	require.NoError(t, d.Attach(tbl))

	var exists *db.TableExistsError
	assert.ErrorAs(t, d.Attach(tbl), &exists)
}

func TestEndToEndScenario(t *testing.T) {
	d := db.New(db.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, d.CreateTable("users", testSchema(t)))

	tbl, err := d.Table("users")
	require.NoError(t, err)

	first, err := tbl.AddRow(map[string]types.Value{
		"id":   types.NewInt(1),
		"name": types.NewText("A"),
	})
	require.NoError(t, err)
	assert.Equal(t, table.RowID(0), first)

	_, err = tbl.AddRow(map[string]types.Value{
		"id":   types.NewInt(1),
		"name": types.NewText("B"),
	})
	var unique *table.UniqueViolationError
	require.ErrorAs(t, err, &unique)
	assert.Equal(t, "id", unique.Column)

	second, err := tbl.AddRow(map[string]types.Value{
		"id":   types.NewInt(2),
		"name": types.NewText("B"),
	})
	require.NoError(t, err)
	assert.Equal(t, table.RowID(1), second)

	var matched []table.RowID
	for row := range tbl.Scan(func(r table.Row) bool {
		name, _ := r.Get("name")
		return name.Equal(types.NewText("B"))
	}) {
		matched = append(matched, row.ID)
	}
	assert.Equal(t, []table.RowID{second}, matched)
}
