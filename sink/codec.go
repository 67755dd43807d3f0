package sink

import (
	"encoding/binary"
	"fmt"

	"github.com/bsm/sktable"
	"github.com/pkg/errors"
)

var errShortBuffer = errors.New("sink: short buffer")

// EncodeColumns appends the encoded stream schema to dst.
//
//	+----------------+------+-------------------+------+-----+
//	| count (varint) | kind | name len (varint) | name | ... |
//	+----------------+------+-------------------+------+-----+
func EncodeColumns(dst []byte, cols []sktable.Column) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(cols)))
	for _, c := range cols {
		dst = append(dst, byte(c.Kind))
		dst = binary.AppendUvarint(dst, uint64(len(c.Name)))
		dst = append(dst, c.Name...)
	}
	return dst
}

// DecodeColumns decodes a stream schema.
func DecodeColumns(p []byte) ([]sktable.Column, error) {
	n, sz := binary.Uvarint(p)
	if sz <= 0 {
		return nil, errShortBuffer
	}
	p = p[sz:]

	cols := make([]sktable.Column, 0, int(n))
	for i := uint64(0); i < n; i++ {
		if len(p) == 0 {
			return nil, errShortBuffer
		}
		kind := sktable.ColumnKind(p[0])
		p = p[1:]

		name, rest, err := readBytes(p)
		if err != nil {
			return nil, err
		}
		p = rest
		cols = append(cols, sktable.Column{Name: string(name), Kind: kind})
	}
	return cols, nil
}

// EncodeRow appends an encoded row to dst. Integers are stored as signed
// varints, text and binary values are length-prefixed.
func EncodeRow(dst []byte, cols []sktable.Column, row []interface{}) ([]byte, error) {
	if len(row) != len(cols) {
		return dst, fmt.Errorf("sink: row has %d values, expected %d", len(row), len(cols))
	}

	for i, c := range cols {
		switch v := row[i].(type) {
		case int64:
			dst = binary.AppendVarint(dst, v)
		case string:
			dst = binary.AppendUvarint(dst, uint64(len(v)))
			dst = append(dst, v...)
		case []byte:
			dst = binary.AppendUvarint(dst, uint64(len(v)))
			dst = append(dst, v...)
		default:
			return dst, fmt.Errorf("sink: column %s: unsupported value %T", c.Name, v)
		}
	}
	return dst, nil
}

// DecodeRow decodes a row encoded by EncodeRow.
func DecodeRow(cols []sktable.Column, p []byte) ([]interface{}, error) {
	row := make([]interface{}, 0, len(cols))
	for _, c := range cols {
		switch c.Kind {
		case sktable.IntegerColumn:
			v, n := binary.Varint(p)
			if n <= 0 {
				return nil, errShortBuffer
			}
			p = p[n:]
			row = append(row, v)
		case sktable.TextColumn, sktable.BinaryColumn:
			v, rest, err := readBytes(p)
			if err != nil {
				return nil, err
			}
			p = rest
			if c.Kind == sktable.TextColumn {
				row = append(row, string(v))
			} else {
				row = append(row, v)
			}
		default:
			return nil, fmt.Errorf("sink: column %s: unsupported kind %v", c.Name, c.Kind)
		}
	}
	return row, nil
}

func readBytes(p []byte) ([]byte, []byte, error) {
	n, sz := binary.Uvarint(p)
	if sz <= 0 || uint64(len(p)-sz) < n {
		return nil, nil, errShortBuffer
	}
	end := sz + int(n)
	return p[sz:end], p[end:], nil
}

// --------------------------------------------------------------------

// SchemaKey returns the key under which a table's columns are stored.
func SchemaKey(table string) []byte {
	return append([]byte(table), "/schema"...)
}

// RowKey returns the key of a row. Keys of the same table sort by row index.
func RowKey(table string, row uint64) []byte {
	key := make([]byte, 0, len(table)+11)
	key = append(key, table...)
	key = append(key, "/r/"...)
	return binary.BigEndian.AppendUint64(key, row)
}
