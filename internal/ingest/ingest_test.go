package ingest

import (
	"bytes"
	"compress/gzip"
	"context"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/JonMunkholm/dataprocess/internal/infer"
)

const gradesCSV = "Name,Score,Grade\nAlice,75,A\nBob,N/A,B\nCarol,85\n"

func texts(t *testing.T, col *infer.Column) []string {
	t.Helper()
	out := make([]string, col.Len())
	for i, v := range col.Values {
		if v.Valid {
			out[i] = v.Text
		} else {
			out[i] = "<missing>"
		}
	}
	return out
}

func readString(t *testing.T, name, content string) *infer.Table {
	t.Helper()
	table, err := Read(context.Background(), name, strings.NewReader(content), Options{})
	require.NoError(t, err)
	return table
}

func TestRead_CSV(t *testing.T) {
	table := readString(t, "grades.csv", gradesCSV)

	assert.Equal(t, []string{"Name", "Score", "Grade"}, table.Names())
	assert.Equal(t, 3, table.Rows())

	score, ok := table.Column("Score")
	require.True(t, ok)
	assert.Equal(t, []string{"75", "<missing>", "85"}, texts(t, score))

	grade, _ := table.Column("Grade")
	assert.Equal(t, []string{"A", "B", "<missing>"}, texts(t, grade), "short rows are padded")

	for _, col := range table.Columns {
		assert.True(t, col.Untyped(), "column %s should be untyped", col.Name)
	}
}

func TestRead_NATokens(t *testing.T) {
	table := readString(t, "na.csv", "v\nnan\nNULL\n  None \nNot Available\n#N/A\n")
	v, _ := table.Column("v")
	assert.Equal(t, []string{"<missing>", "<missing>", "<missing>", "Not Available", "<missing>"}, texts(t, v))
}

func TestRead_CustomNAValues(t *testing.T) {
	table, err := Read(context.Background(), "na.csv", strings.NewReader("v\n-\nnan\n"), Options{NAValues: []string{"-"}})
	require.NoError(t, err)
	v, _ := table.Column("v")
	assert.Equal(t, []string{"<missing>", "nan"}, texts(t, v))
}

func TestRead_DuplicateHeaders(t *testing.T) {
	table := readString(t, "dup.csv", "a,a,,b,a\n1,2,3,4,5\n")
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "b", "a.2"}, table.Names())
}

func TestRead_TSV(t *testing.T) {
	table := readString(t, "grades.tsv", "Name\tScore\nAlice\t75\n")
	assert.Equal(t, []string{"Name", "Score"}, table.Names())
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"empty", "a.csv", "", ErrEmptyFile},
		{"only blank lines", "a.csv", "\n\n", ErrEmptyFile},
		{"header only", "a.csv", "a,b\n", ErrNoData},
		{"binary without format", "blob.bin", "\x00\x01\x02", ErrUnsupportedFormat},
		{"gz name but plain content", "a.csv.gz", "a,b\n1,2\n", ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(context.Background(), tt.file, strings.NewReader(tt.content), Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRead_SizeLimit(t *testing.T) {
	_, err := Read(context.Background(), "a.csv", strings.NewReader(gradesCSV), Options{MaxBytes: 10})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRead_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Read(ctx, "a.csv", strings.NewReader(gradesCSV), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRead_Compressed(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(gradesCSV))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write([]byte(gradesCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var xzb bytes.Buffer
	xw, err := xz.NewWriter(&xzb)
	require.NoError(t, err)
	_, err = xw.Write([]byte(gradesCSV))
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	tests := []struct {
		name string
		data []byte
	}{
		{"grades.csv.gz", gz.Bytes()},
		{"grades.csv.zst", zs.Bytes()},
		{"grades.csv.xz", xzb.Bytes()},
		{"grades", gz.Bytes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Read(context.Background(), tt.name, bytes.NewReader(tt.data), Options{})
			require.NoError(t, err)
			assert.Equal(t, []string{"Name", "Score", "Grade"}, table.Names())
			assert.Equal(t, 3, table.Rows())
		})
	}
}

func TestRead_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("City\nMünchen\n")
	require.NoError(t, err)

	table := readString(t, "cities.csv", encoded)
	city, _ := table.Column("City")
	assert.Equal(t, []string{"München"}, texts(t, city))
}

func TestRead_UTF8BOM(t *testing.T) {
	table := readString(t, "bom.csv", "\ufeffName\nAlice\n")
	assert.Equal(t, []string{"Name"}, table.Names())
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Score"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Alice", 75}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Bob"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	for _, name := range []string{"grades.xlsx", "upload"} {
		t.Run(name, func(t *testing.T) {
			table, err := Read(context.Background(), name, bytes.NewReader(buf.Bytes()), Options{})
			require.NoError(t, err)
			assert.Equal(t, []string{"Name", "Score"}, table.Names())
			score, _ := table.Column("Score")
			assert.Equal(t, []string{"75", "<missing>"}, texts(t, score))
		})
	}
}

func TestRead_HTML(t *testing.T) {
	page := `<html><body>
<table>
  <tr><th>Name</th><th>Score</th></tr>
  <tr><td>Alice</td><td> 75 </td></tr>
  <tr><td>Bob</td><td>NaN</td></tr>
</table>
<table><tr><th>Other</th></tr></table>
</body></html>`

	table := readString(t, "report.html", page)
	assert.Equal(t, []string{"Name", "Score"}, table.Names())
	score, _ := table.Column("Score")
	assert.Equal(t, []string{"75", "<missing>"}, texts(t, score))
}

func TestRead_Parquet(t *testing.T) {
	pool := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "Name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "Score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues([]string{"Alice", "Bob"}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{75, 0}, []bool{true, false})
	rec := b.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))

	table, err := Read(context.Background(), "grades.parquet", bytes.NewReader(buf.Bytes()), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Score"}, table.Names())

	name, _ := table.Column("Name")
	assert.Equal(t, []string{"Alice", "Bob"}, texts(t, name))
	score, _ := table.Column("Score")
	assert.Equal(t, []string{"75", "<missing>"}, texts(t, score))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"a.csv", "x", FormatCSV},
		{"a.TSV", "x", FormatTSV},
		{"a.xlsx", "x", FormatXLSX},
		{"a.parquet", "x", FormatParquet},
		{"a.htm", "x", FormatHTML},
		{"upload", "PK\x03\x04rest", FormatXLSX},
		{"upload", "PAR1rest", FormatParquet},
		{"upload", "<!DOCTYPE html><table></table>", FormatHTML},
		{"upload", "a,b\n1,2", FormatCSV},
		{"upload", "a\x00b", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.name, []byte(tt.data)))
		})
	}
}

func TestSniffCompression(t *testing.T) {
	assert.Equal(t, CompressionGZ, SniffCompression([]byte{0x1f, 0x8b, 0x08}))
	assert.Equal(t, CompressionZSTD, SniffCompression([]byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}))
	assert.Equal(t, CompressionNone, SniffCompression([]byte("a,b")))
	assert.Equal(t, CompressionXZ, DetectCompression("data.CSV.XZ"))
}
