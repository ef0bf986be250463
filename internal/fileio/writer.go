package fileio

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/correctir/core/errors"
)

// Writer is an output stream with automatic compression.
type Writer struct {
	io.Writer
	path       string
	file       *os.File
	compressor io.WriteCloser
}

// CreateOutput creates path for writing, truncating any existing file.
func CreateOutput(path string) (*Writer, error) {
	if path == "" || path == Stdio {
		return &Writer{Writer: os.Stdout, path: Stdio}, nil
	}
	if err := checkPath(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create", path, err)
	}

	w := &Writer{Writer: f, path: path, file: f}
	switch {
	case strings.HasSuffix(path, ".xz"):
		xzw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("compress", path, err)
		}
		w.Writer = xzw
		w.compressor = xzw
	case strings.HasSuffix(path, ".gz"):
		gzw := gzip.NewWriter(f)
		w.Writer = gzw
		w.compressor = gzw
	}
	return w, nil
}

// Close flushes any compressor and closes the file. Closing stdout is a
// no-op.
func (w *Writer) Close() error {
	if w.compressor != nil {
		if err := w.compressor.Close(); err != nil {
			if w.file != nil {
				w.file.Close()
			}
			return errors.NewIO("compress", w.path, err)
		}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return errors.NewIO("close", w.path, err)
		}
	}
	return nil
}

// WriteLine writes s followed by a newline unless s is empty or already
// ends with one.
func (w *Writer) WriteLine(s string) error {
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	if _, err := io.WriteString(w.Writer, s); err != nil {
		return errors.NewIO("write", w.path, err)
	}
	return nil
}
