// Package ingest turns an uploaded file into an all-text infer.Table.
//
// Supported inputs are CSV, TSV, XLSX, Parquet and HTML tables, optionally
// compressed with gzip, bzip2, xz or zstd. Every cell arrives as text or as a
// missing marker; typing is left to package infer.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/dataprocess/internal/infer"
)

var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoData            = errors.New("no Excel or CSV data")
	ErrTooLarge          = errors.New("file exceeds size limit")
)

// Format identifies a tabular file layout.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatTSV
	FormatXLSX
	FormatParquet
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	case FormatParquet:
		return "parquet"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Options controls reading. The zero value reads without a size limit and
// with DefaultNAValues.
type Options struct {
	// MaxBytes bounds both the upload and its decompressed form. 0 disables.
	MaxBytes int64

	// NAValues replaces the default missing-value tokens when non-nil.
	NAValues []string
}

// Read decodes the named upload into a table. The name is only used for its
// extensions; content sniffing covers files without a useful one.
func Read(ctx context.Context, name string, r io.Reader, opts Options) (*infer.Table, error) {
	data, err := readLimited(r, opts.MaxBytes)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	expected := DetectCompression(name)
	data, err = decompress(data, expected, opts.MaxBytes)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(name, expected.Extension())
	format := DetectFormat(base, data)

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = readDelimited(data, ',')
	case FormatTSV:
		rows, err = readDelimited(data, '\t')
	case FormatXLSX:
		rows, err = readXLSX(data)
	case FormatParquet:
		return readParquet(ctx, data, newNAMatcher(opts.NAValues))
	case FormatHTML:
		rows, err = readHTML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(base))
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", format, err)
	}
	return buildTable(rows, newNAMatcher(opts.NAValues))
}

// DetectFormat picks a reader by extension, falling back to content sniffing.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".parquet":
		return FormatParquet
	case ".html", ".htm":
		return FormatHTML
	}

	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, parquetMagic):
		return FormatParquet
	case hasUTF16BOM(data):
		return FormatCSV
	case IsBinary(data):
		return FormatUnknown
	case looksLikeHTML(data):
		return FormatHTML
	default:
		return FormatCSV
	}
}

var (
	zipMagic     = []byte("PK\x03\x04")
	parquetMagic = []byte("PAR1")
)

// IsBinary reports whether data contains a NUL byte.
func IsBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}

func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.HasPrefix(head, []byte("<table"))
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
