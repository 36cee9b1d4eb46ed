package ingest

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression identifies a stream compression wrapper.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGZ
	CompressionBZ2
	CompressionXZ
	CompressionZSTD
)

const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// Extension returns the file extension for the compression, or "".
func (c Compression) Extension() string {
	switch c {
	case CompressionGZ:
		return extGZ
	case CompressionBZ2:
		return extBZ2
	case CompressionXZ:
		return extXZ
	case CompressionZSTD:
		return extZSTD
	default:
		return ""
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionGZ:
		return "gzip"
	case CompressionBZ2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// DetectCompression returns the compression implied by a file name.
func DetectCompression(name string) Compression {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, extGZ):
		return CompressionGZ
	case strings.HasSuffix(name, extBZ2):
		return CompressionBZ2
	case strings.HasSuffix(name, extXZ):
		return CompressionXZ
	case strings.HasSuffix(name, extZSTD):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

var compressionMagic = []struct {
	kind  Compression
	magic []byte
}{
	{CompressionGZ, []byte{0x1f, 0x8b}},
	{CompressionBZ2, []byte("BZh")},
	{CompressionXZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{CompressionZSTD, []byte{0x28, 0xb5, 0x2f, 0xfd}},
}

// SniffCompression returns the compression whose magic bytes start data.
func SniffCompression(data []byte) Compression {
	for _, m := range compressionMagic {
		if bytes.HasPrefix(data, m.magic) {
			return m.kind
		}
	}
	return CompressionNone
}

// newDecompressor wraps r according to kind. The returned close function
// must be called once reading is done.
func newDecompressor(kind Compression, r io.Reader) (io.Reader, func() error, error) {
	switch kind {
	case CompressionNone:
		return r, func() error { return nil }, nil

	case CompressionGZ:
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case CompressionBZ2:
		return bzip2.NewReader(r), func() error { return nil }, nil

	case CompressionXZ:
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, func() error { return nil }, nil

	case CompressionZSTD:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression type: %v", kind)
	}
}

// decompress unwraps data. The content's magic bytes decide the codec; a name
// that promises compression the content does not carry is an error.
func decompress(data []byte, expected Compression, limit int64) ([]byte, error) {
	actual := SniffCompression(data)
	if actual == CompressionNone {
		if expected != CompressionNone {
			return nil, fmt.Errorf("%w: content is not %s compressed", ErrUnsupportedFormat, expected)
		}
		return data, nil
	}

	r, closeFn, err := newDecompressor(actual, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeFn() }()

	out, err := readLimited(r, limit)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", actual, err)
	}
	return out, nil
}
