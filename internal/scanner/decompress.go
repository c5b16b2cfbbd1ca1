package scanner

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Compression is the container format of a log file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

func detectCompression(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(header, bzip2Magic):
		return CompressionBzip2
	case bytes.HasPrefix(header, xzMagic):
		return CompressionXZ
	default:
		return CompressionNone
	}
}

// readFile reads the whole file, transparently decompressing it when its
// magic bytes identify gzip, bzip2 or xz. The file extension is ignored.
func readFile(path string) ([]byte, Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CompressionNone, errors.Wrap(err, "open")
	}
	defer f.Close()

	br := bufio.NewReader(f)
	// Peek returns io.EOF for files shorter than the longest magic; the bytes
	// it did return are still usable.
	header, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, CompressionNone, errors.Wrap(err, "read header")
	}
	compression := detectCompression(header)

	var r io.Reader
	switch compression {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, compression, errors.Wrap(err, "gzip")
		}
		defer gz.Close()
		r = gz
	case CompressionBzip2:
		r = bzip2.NewReader(br)
	case CompressionXZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, compression, errors.Wrap(err, "xz")
		}
		r = xr
	default:
		r = br
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, compression, errors.Wrapf(err, "read %s data", compression)
	}
	return data, compression, nil
}
