package sink

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	"github.com/bsm/sktable"
)

var tsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// Text writes tab-separated rows, with a header line per table. Binary values
// are hex-encoded.
type Text struct {
	w *bufio.Writer
	c io.WriteCloser
}

// NewText wraps a writer.
func NewText(w io.WriteCloser) *Text {
	return &Text{w: bufio.NewWriter(w), c: w}
}

// WriteTable implements sktable.Sink.
func (t *Text) WriteTable(name string, rows sktable.RowStream) error {
	cols := rows.Columns()

	_, _ = t.w.WriteString("# ")
	_, _ = t.w.WriteString(name)
	_ = t.w.WriteByte('\n')
	for i, c := range cols {
		if i != 0 {
			_ = t.w.WriteByte('\t')
		}
		_, _ = t.w.WriteString(c.Name)
	}
	_ = t.w.WriteByte('\n')

	var tmp []byte
	for rows.Next() {
		for i, v := range rows.Row() {
			if i != 0 {
				_ = t.w.WriteByte('\t')
			}

			switch x := v.(type) {
			case int64:
				tmp = strconv.AppendInt(tmp[:0], x, 10)
				_, _ = t.w.Write(tmp)
			case string:
				_, _ = tsvEscaper.WriteString(t.w, x)
			case []byte:
				tmp = append(tmp[:0], make([]byte, hex.EncodedLen(len(x)))...)
				hex.Encode(tmp, x)
				_, _ = t.w.Write(tmp)
			}
		}
		if err := t.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return t.w.Flush()
}

// Close flushes and closes the underlying writer.
func (t *Text) Close() error {
	if err := t.w.Flush(); err != nil {
		_ = t.c.Close()
		return err
	}
	return t.c.Close()
}
