package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/JonMunkholm/dataprocess/internal/infer"
)

// readParquet reads every row group and renders each value as text. Parquet
// nulls become missing markers directly.
func readParquet(ctx context.Context, data []byte, isMissing func(string) bool) (*infer.Table, error) {
	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	if table.NumRows() == 0 {
		return nil, ErrNoData
	}

	schema := table.Schema()
	raw := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		raw[i] = field.Name
	}
	names := dedupeHeaders(raw)

	values := make([][]infer.Value, len(names))
	tr := array.NewTableReader(table, 0)
	defer tr.Release()
	for tr.Next() {
		batch := tr.Record()
		for j, col := range batch.Columns() {
			for i := 0; i < col.Len(); i++ {
				if col.IsNull(i) {
					values[j] = append(values[j], infer.Missing())
					continue
				}
				s := col.ValueStr(i)
				if isMissing(s) {
					values[j] = append(values[j], infer.Missing())
					continue
				}
				values[j] = append(values[j], infer.TextValue(s))
			}
		}
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}

	columns := make([]*infer.Column, len(names))
	for j, name := range names {
		columns[j] = &infer.Column{Name: name, Kind: infer.KindText, Values: values[j]}
	}
	return infer.NewTable(columns...), nil
}
