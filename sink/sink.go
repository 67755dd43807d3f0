// Package sink contains sktable.Sink implementations.
package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/bsm/sktable"
)

// Closer is a sink that must be closed after use.
type Closer interface {
	sktable.Sink
	io.Closer
}

// Kinds lists the names accepted by Open.
var Kinds = []string{"text", "sntable", "leveldb", "cdb", "badger"}

// Open opens a sink by kind. For "text", an empty path or "-" writes to
// stdout.
func Open(kind, path string, stdout io.Writer) (Closer, error) {
	switch kind {
	case "text":
		if path == "" || path == "-" {
			return NewText(nopCloser{stdout}), nil
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return NewText(f), nil
	case "sntable":
		return NewSNTable(path)
	case "leveldb":
		return NewLevelDB(path)
	case "cdb":
		return NewCDB(path)
	case "badger":
		return NewBadger(path)
	}
	return nil, fmt.Errorf("sink: unknown kind %q", kind)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
