package sink

import (
	"os"
	"path/filepath"

	"github.com/bsm/sktable"
	"github.com/bsm/sntable"
	"github.com/pkg/errors"
)

// SNTable writes each table into <dir>/<name>.snt. Key 0 holds the encoded
// columns, key i+1 holds row i.
type SNTable struct {
	dir string

	// Compression is the block codec.
	// Default: SnappyCompression.
	Compression sntable.Compression
}

// NewSNTable creates a sink writing into dir.
func NewSNTable(dir string) (*SNTable, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SNTable{dir: dir, Compression: sntable.SnappyCompression}, nil
}

// Path returns the file path of a table.
func (s *SNTable) Path(name string) string {
	return filepath.Join(s.dir, name+".snt")
}

// WriteTable implements sktable.Sink.
func (s *SNTable) WriteTable(name string, rows sktable.RowStream) error {
	f, err := os.Create(s.Path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := sntable.NewWriter(f, &sntable.WriterOptions{Compression: s.Compression})
	cols := rows.Columns()
	if err := w.Append(0, EncodeColumns(nil, cols)); err != nil {
		return err
	}

	var buf []byte
	for key := uint64(1); rows.Next(); key++ {
		if buf, err = EncodeRow(buf[:0], cols, rows.Row()); err != nil {
			return err
		}
		if err := w.Append(key, buf); err != nil {
			return errors.Wrapf(err, "sink: append row %d", key-1)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Close implements io.Closer.
func (s *SNTable) Close() error { return nil }
