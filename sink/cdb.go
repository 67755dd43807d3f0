package sink

import (
	"os"
	"path/filepath"

	"github.com/bsm/sktable"
	"github.com/colinmarc/cdb"
)

// CDB writes each table into a constant database at <dir>/<name>.cdb, keyed
// by SchemaKey and RowKey.
type CDB struct {
	dir string
}

// NewCDB creates a sink writing into dir.
func NewCDB(dir string) (*CDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CDB{dir: dir}, nil
}

// Path returns the file path of a table.
func (s *CDB) Path(name string) string {
	return filepath.Join(s.dir, name+".cdb")
}

// WriteTable implements sktable.Sink.
func (s *CDB) WriteTable(name string, rows sktable.RowStream) error {
	w, err := cdb.Create(s.Path(name))
	if err != nil {
		return err
	}

	if err := s.writeRows(w, name, rows); err != nil {
		_ = w.Close()
		_ = os.Remove(s.Path(name))
		return err
	}
	return w.Close()
}

func (s *CDB) writeRows(w *cdb.Writer, name string, rows sktable.RowStream) error {
	cols := rows.Columns()
	if err := w.Put(SchemaKey(name), EncodeColumns(nil, cols)); err != nil {
		return err
	}

	var buf []byte
	var err error
	for n := uint64(0); rows.Next(); n++ {
		if buf, err = EncodeRow(buf[:0], cols, rows.Row()); err != nil {
			return err
		}
		if err := w.Put(RowKey(name, n), buf); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Close implements io.Closer.
func (s *CDB) Close() error { return nil }
