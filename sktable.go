package sktable

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// Kind classifies errors returned by this package.
type Kind uint8

// Error kinds.
const (
	KindConfig Kind = iota + 1
	KindIO
	KindFormat
	KindRange
	KindEncoding
	KindSink
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	case KindRange:
		return "range"
	case KindEncoding:
		return "encoding"
	case KindSink:
		return "sink"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinels matching errors of a given kind with errors.Is.
var (
	ErrConfig   = &Error{Kind: KindConfig}
	ErrIO       = &Error{Kind: KindIO}
	ErrFormat   = &Error{Kind: KindFormat}
	ErrRange    = &Error{Kind: KindRange}
	ErrEncoding = &Error{Kind: KindEncoding}
	ErrSink     = &Error{Kind: KindSink}
)

// ErrEmptyTable is returned by Export when the table has no rows.
var ErrEmptyTable = errors.New("empty table")

var (
	errClosed   = errors.New("is closed")
	errReleased = errors.New("iterator was released")
)

// Error is returned by all operations of this package.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "sktable: " + e.Kind.String() + " error"
	}
	return "sktable: " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches kind sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of err, or zero if err was not produced by this
// package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if e := (*Error)(nil); errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Err: errors.Wrapf(err, format, args...)}
}

// --------------------------------------------------------------------

// Compression is the compression method of a variable field's storage.
type Compression uint8

// Supported compression methods.
const (
	NoCompression Compression = iota
	ZlibCompression
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case ZlibCompression:
		return "zlib"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

func parseCompression(s string) (Compression, bool) {
	switch s {
	case "zlib", "ZLIB":
		return ZlibCompression, true
	}
	return NoCompression, false
}

// --------------------------------------------------------------------

// Options configure table compilation and reading.
type Options struct {
	// Logger receives diagnostics such as row count mismatches.
	// Default: discard.
	Logger *slog.Logger

	// Metrics collects read statistics.
	// Default: nil (disabled).
	Metrics *Metrics
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.Logger == nil {
		oo.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &oo
}
