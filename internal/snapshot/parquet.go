package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/grendeldb/grendel/internal/db"
)

// catalogFile describes the snapshot directory: schemas and id counters live
// here, row data lives in one parquet file per table.
const catalogFile = "catalog.json"

// parquetRecord is one table row in parquet form. Cells are carried as a
// JSON document since the column set varies per table.
type parquetRecord struct {
	Table     string `parquet:"name=table, type=BYTE_ARRAY, convertedtype=UTF8"`
	RowID     int64  `parquet:"name=row_id, type=INT64"`
	CellsJSON string `parquet:"name=cells_json, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type catalogDoc struct {
	Tables []catalogTableDoc `json:"tables"`
}

type catalogTableDoc struct {
	Name    string      `json:"name"`
	Columns []columnDoc `json:"columns"`
	NextID  int64       `json:"next_id"`
}

// WriteParquet snapshots the database into dir: a catalog.json with the
// schemas plus a <table>.parquet file per table.
func WriteParquet(dir string, d *db.Database) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	doc := encode(d)
	catalog := catalogDoc{Tables: make([]catalogTableDoc, len(doc.Tables))}
	for i, tdoc := range doc.Tables {
		catalog.Tables[i] = catalogTableDoc{
			Name:    tdoc.Name,
			Columns: tdoc.Columns,
			NextID:  tdoc.NextID,
		}
		if err := writeParquetFile(dir, tdoc); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, catalogFile), data, 0644)
}

func writeParquetFile(dir string, tdoc tableDoc) error {
	filePath := filepath.Join(dir, fmt.Sprintf("%s.parquet", tdoc.Name))
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file for table %s: %w", tdoc.Name, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(parquetRecord), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range tdoc.Rows {
		cells, err := json.Marshal(row.Cells)
		if err != nil {
			return err
		}
		rec := &parquetRecord{
			Table:     tdoc.Name,
			RowID:     row.ID,
			CellsJSON: string(cells),
		}
		if err := pw.Write(rec); err != nil {
			return err
		}
	}

	return pw.WriteStop()
}

// ReadParquet reconstructs a database from a parquet snapshot directory.
func ReadParquet(dir string, opts ...db.Option) (*db.Database, error) {
	data, err := os.ReadFile(filepath.Join(dir, catalogFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot catalog: %w", err)
	}
	var catalog catalogDoc
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot catalog: %w", err)
	}

	doc := document{Tables: make([]tableDoc, len(catalog.Tables))}
	for i, ct := range catalog.Tables {
		rows, err := readParquetFile(dir, ct.Name)
		if err != nil {
			return nil, err
		}
		doc.Tables[i] = tableDoc{
			Name:    ct.Name,
			Columns: ct.Columns,
			NextID:  ct.NextID,
			Rows:    rows,
		}
	}
	return decode(doc, opts...)
}

func readParquetFile(dir, tableName string) ([]rowDoc, error) {
	filePath := filepath.Join(dir, fmt.Sprintf("%s.parquet", tableName))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	}

	fr, err := local.NewLocalFileReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetRecord), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	numRows := int(pr.GetNumRows())
	if numRows == 0 {
		return nil, nil
	}
	records := make([]parquetRecord, numRows)
	if err := pr.Read(&records); err != nil {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}

	rows := make([]rowDoc, 0, numRows)
	for _, rec := range records {
		if rec.Table != tableName {
			continue
		}
		var cells map[string]cellDoc
		if err := json.Unmarshal([]byte(rec.CellsJSON), &cells); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row %d of table %s: %w", rec.RowID, tableName, err)
		}
		rows = append(rows, rowDoc{ID: rec.RowID, Cells: cells})
	}
	return rows, nil
}
