// Package snapshot serializes a database to a stable, deterministic form
// and reconstructs one from it. Tables are ordered by name ascending and
// rows by id ascending, so identical databases produce identical snapshots.
package snapshot

import (
	"fmt"

	"github.com/grendeldb/grendel/internal/db"
	"github.com/grendeldb/grendel/internal/schema"
	"github.com/grendeldb/grendel/internal/table"
	"github.com/grendeldb/grendel/internal/types"
)

type document struct {
	Tables []tableDoc `json:"tables"`
}

type tableDoc struct {
	Name    string      `json:"name"`
	Columns []columnDoc `json:"columns"`
	NextID  int64       `json:"next_id"`
	Rows    []rowDoc    `json:"rows"`
}

type columnDoc struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	NotNull bool     `json:"not_null,omitempty"`
	Unique  bool     `json:"unique,omitempty"`
	Default *cellDoc `json:"default,omitempty"`
}

type rowDoc struct {
	ID    int64              `json:"id"`
	Cells map[string]cellDoc `json:"cells"`
}

// cellDoc tags every serialized value with its kind so INT 1 and FLOAT 1
// survive the round trip distinct.
type cellDoc struct {
	Type  string   `json:"type"`
	Int   *int64   `json:"int,omitempty"`
	Float *float64 `json:"float,omitempty"`
	Text  *string  `json:"text,omitempty"`
	Bool  *bool    `json:"bool,omitempty"`
}

func encodeValue(v types.Value) cellDoc {
	doc := cellDoc{Type: v.Type().String()}
	switch v.Type() {
	case types.TypeInt:
		i := v.Int()
		doc.Int = &i
	case types.TypeFloat:
		f := v.Float()
		doc.Float = &f
	case types.TypeText:
		s := v.Text()
		doc.Text = &s
	case types.TypeBool:
		b := v.Bool()
		doc.Bool = &b
	}
	return doc
}

func decodeValue(doc cellDoc) (types.Value, error) {
	switch doc.Type {
	case "NULL":
		return types.Null(), nil
	case "INT":
		if doc.Int == nil {
			return types.Value{}, fmt.Errorf("INT cell without payload")
		}
		return types.NewInt(*doc.Int), nil
	case "FLOAT":
		if doc.Float == nil {
			return types.Value{}, fmt.Errorf("FLOAT cell without payload")
		}
		return types.NewFloat(*doc.Float), nil
	case "TEXT":
		if doc.Text == nil {
			return types.Value{}, fmt.Errorf("TEXT cell without payload")
		}
		return types.NewText(*doc.Text), nil
	case "BOOL":
		if doc.Bool == nil {
			return types.Value{}, fmt.Errorf("BOOL cell without payload")
		}
		return types.NewBool(*doc.Bool), nil
	default:
		return types.Value{}, fmt.Errorf("unknown cell type %q", doc.Type)
	}
}

func encodeColumns(s schema.Schema) []columnDoc {
	cols := s.Columns()
	docs := make([]columnDoc, len(cols))
	for i, col := range cols {
		doc := columnDoc{
			Name:    col.Name,
			Type:    col.Type.String(),
			NotNull: col.NotNull,
			Unique:  col.Unique,
		}
		if def, ok := col.Default(); ok {
			enc := encodeValue(def)
			doc.Default = &enc
		}
		docs[i] = doc
	}
	return docs
}

func decodeColumns(docs []columnDoc) (schema.Schema, error) {
	cols := make([]schema.Column, 0, len(docs))
	for _, doc := range docs {
		typ, ok := types.ParseValueType(doc.Type)
		if !ok {
			return schema.Schema{}, fmt.Errorf("column %s: unknown type %q", doc.Name, doc.Type)
		}
		b := schema.NewColumnBuilder(doc.Name, typ)
		if doc.NotNull {
			b.NotNull()
		}
		if doc.Unique {
			b.Unique()
		}
		if doc.Default != nil {
			def, err := decodeValue(*doc.Default)
			if err != nil {
				return schema.Schema{}, fmt.Errorf("column %s: %w", doc.Name, err)
			}
			b.Default(def)
		}
		col, err := b.Build()
		if err != nil {
			return schema.Schema{}, err
		}
		cols = append(cols, col)
	}
	return schema.NewSchema(cols)
}

func encodeRows(rows []table.Row, names []string) []rowDoc {
	docs := make([]rowDoc, len(rows))
	for i, row := range rows {
		cells := make(map[string]cellDoc, len(names))
		for _, name := range names {
			cells[name] = encodeValue(row.Cells[name])
		}
		docs[i] = rowDoc{ID: int64(row.ID), Cells: cells}
	}
	return docs
}

func decodeRows(docs []rowDoc) ([]table.Row, error) {
	rows := make([]table.Row, len(docs))
	for i, doc := range docs {
		cells := make(map[string]types.Value, len(doc.Cells))
		for name, cell := range doc.Cells {
			v, err := decodeValue(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", doc.ID, name, err)
			}
			cells[name] = v
		}
		rows[i] = table.Row{ID: table.RowID(doc.ID), Cells: cells}
	}
	return rows, nil
}

func encodeTable(tbl *table.Table) tableDoc {
	s := tbl.Schema()
	return tableDoc{
		Name:    tbl.Name(),
		Columns: encodeColumns(s),
		NextID:  int64(tbl.NextID()),
		Rows:    encodeRows(tbl.Rows(), s.Names()),
	}
}

func encode(d *db.Database) document {
	tables := d.Tables()
	doc := document{Tables: make([]tableDoc, len(tables))}
	for i, tbl := range tables {
		doc.Tables[i] = encodeTable(tbl)
	}
	return doc
}

// decode rebuilds a database from a document. Rows go through the bulk-load
// path, which batch-validates instead of re-scanning per row.
func decode(doc document, opts ...db.Option) (*db.Database, error) {
	d := db.New(opts...)
	for _, tdoc := range doc.Tables {
		s, err := decodeColumns(tdoc.Columns)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tdoc.Name, err)
		}
		rows, err := decodeRows(tdoc.Rows)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tdoc.Name, err)
		}
		tbl, err := table.Load(tdoc.Name, s, rows, table.RowID(tdoc.NextID))
		if err != nil {
			return nil, err
		}
		if err := d.Attach(tbl); err != nil {
			return nil, err
		}
	}
	return d, nil
}
