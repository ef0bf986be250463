// Package fileio opens document input and output streams for the CLI.
// The path "-" means stdin or stdout, and the .xz and .gz extensions are
// decompressed on read and compressed on write.
package fileio

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/internal/validation"
)

// Stdio is the path naming stdin or stdout.
const Stdio = "-"

// Reader is an input stream with automatic decompression.
type Reader struct {
	io.Reader
	file         *os.File
	decompressor io.Closer
}

// OpenInput opens path for reading.
func OpenInput(path string) (*Reader, error) {
	if path == "" || path == Stdio {
		return &Reader{Reader: os.Stdin}, nil
	}
	if err := checkPath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "input file", ID: path, Err: err}
		}
		return nil, errors.NewIO("open", path, err)
	}

	r := &Reader{Reader: f, file: f}
	switch {
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", path, err)
		}
		r.Reader = xzr
	case strings.HasSuffix(path, ".gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", path, err)
		}
		r.Reader = gzr
		r.decompressor = gzr
	}
	return r, nil
}

// Close closes the reader and any underlying decompressor. Closing stdin
// is a no-op.
func (r *Reader) Close() error {
	var first error
	if r.decompressor != nil {
		first = r.decompressor.Close()
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReadAll reads the whole input at path as a string. The input must be
// UTF-8 text no larger than validation.MaxDocumentSize after decompression.
func ReadAll(path string) (string, error) {
	r, err := OpenInput(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	data, err := io.ReadAll(io.LimitReader(r, validation.MaxDocumentSize+1))
	if err != nil {
		return "", errors.NewIO("read", path, err)
	}
	if err := validation.ValidateDocument(data); err != nil {
		return "", &errors.ValidationError{Field: "input", Value: path, Message: err.Error(), Err: err}
	}
	return string(data), nil
}

func checkPath(path string) error {
	if err := validation.ValidatePath(path); err != nil {
		return &errors.ValidationError{Field: "path", Value: path, Message: err.Error(), Err: err}
	}
	return nil
}
