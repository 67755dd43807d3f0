package sktable

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ColumnKind is the type of an exported column.
type ColumnKind uint8

// Supported column kinds.
const (
	IntegerColumn ColumnKind = iota + 1
	TextColumn
	BinaryColumn
)

func (k ColumnKind) String() string {
	switch k {
	case IntegerColumn:
		return "integer"
	case TextColumn:
		return "text"
	case BinaryColumn:
		return "binary"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Column describes an exported column.
type Column struct {
	Name string
	Kind ColumnKind
}

// ColumnKind returns the export kind of a field. Fixed fields are integers,
// variable fields are text or binary depending on their declared type.
func (f *Field) ColumnKind() (ColumnKind, bool) {
	if !f.IsVariable() {
		return IntegerColumn, true
	}
	switch f.TypeName {
	case "text":
		return TextColumn, true
	case "binary":
		return BinaryColumn, true
	}
	return 0, false
}

// coercers convert assembled values into their exported representation.
var coercers = map[ColumnKind]func(interface{}) (interface{}, error){
	IntegerColumn: func(v interface{}) (interface{}, error) {
		n, ok := v.(int64)
		if !ok {
			return nil, errors.Errorf("expected integer, got %T", v)
		}
		return n, nil
	},
	TextColumn: func(v interface{}) (interface{}, error) {
		p, ok := v.([]byte)
		if !ok {
			return nil, errors.Errorf("expected bytes, got %T", v)
		}
		if !utf8.Valid(p) {
			return nil, &Error{Kind: KindEncoding, Err: errors.Errorf("invalid UTF-8 text %q", truncate(p, 32))}
		}
		return string(p), nil
	},
	BinaryColumn: func(v interface{}) (interface{}, error) {
		p, ok := v.([]byte)
		if !ok {
			return nil, errors.Errorf("expected bytes, got %T", v)
		}
		return p, nil
	},
}

func truncate(p []byte, n int) []byte {
	if len(p) > n {
		return p[:n]
	}
	return p
}

// RowStream is a typed stream of rows.
type RowStream interface {
	// Columns returns the stream schema.
	Columns() []Column
	// Next advances the stream and returns true if successful.
	Next() bool
	// Row returns the current row, positionally matching Columns. Values are
	// int64 for integers, string for text and []byte for binary columns.
	// The slice is only valid until the next call to Next.
	Row() []interface{}
	// Err exposes stream errors, if any.
	Err() error
}

// Sink persists named row streams.
type Sink interface {
	WriteTable(name string, rows RowStream) error
}

// --------------------------------------------------------------------

// ExportOptions configure Export.
type ExportOptions struct {
	Options

	// Strip removes a single trailing zero byte from variable items.
	Strip bool
}

// Export streams the named columns of a table into a sink. An empty column
// list exports all fields.
func Export(t *Table, name string, columns []string, s Sink, opts *ExportOptions) error {
	var eo ExportOptions
	if opts != nil {
		eo = *opts
	}
	if name == "" {
		name = t.Name
	}

	if t.RowCount == 0 {
		return &Error{Kind: KindSink, Err: errors.Wrapf(ErrEmptyTable, "table %s", name)}
	}

	r, err := Open(t, &eo.Options)
	if err != nil {
		return err
	}
	defer r.Close()

	rows, err := r.Rows(columns, &RowOptions{Strip: eo.Strip})
	if err != nil {
		return err
	}
	defer rows.Release()

	stream, err := newRowStream(rows)
	if err != nil {
		return err
	}
	stream.onRow = func() { r.o.Metrics.rowExported(name) }

	if err := s.WriteTable(name, stream); err != nil {
		if serr := stream.Err(); serr != nil {
			return serr
		}
		return wrapError(KindSink, err, "table %s", name)
	}
	return stream.Err()
}

// --------------------------------------------------------------------

type rowStream struct {
	rows    *Rows
	columns []Column
	coerce  []func(interface{}) (interface{}, error)
	row     []interface{}
	onRow   func()
	err     error
}

// NewRowStream wraps rows into a typed RowStream. It fails with a sink error
// if a selected field has no supported column kind.
func NewRowStream(rows *Rows) (RowStream, error) {
	s, err := newRowStream(rows)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newRowStream(rows *Rows) (*rowStream, error) {
	fields := rows.Fields()
	s := &rowStream{
		rows:    rows,
		columns: make([]Column, len(fields)),
		coerce:  make([]func(interface{}) (interface{}, error), len(fields)),
		row:     make([]interface{}, len(fields)),
	}

	for i, f := range fields {
		kind, ok := f.ColumnKind()
		if !ok {
			return nil, newError(KindSink, "column %s: unsupported column type %q", f.Name, f.TypeName)
		}
		s.columns[i] = Column{Name: f.Name, Kind: kind}
		s.coerce[i] = coercers[kind]
	}
	return s, nil
}

func (s *rowStream) Columns() []Column { return s.columns }

func (s *rowStream) Next() bool {
	if s.err != nil || !s.rows.Next() {
		return false
	}

	for i, v := range s.rows.Row() {
		val, err := s.coerce[i](v)
		if err != nil {
			s.err = wrapError(KindEncoding, err, "row %d, column %s", s.rows.Pos(), s.columns[i].Name)
			return false
		}
		s.row[i] = val
	}
	if s.onRow != nil {
		s.onRow()
	}
	return true
}

func (s *rowStream) Row() []interface{} { return s.row }

func (s *rowStream) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.rows.Err()
}
