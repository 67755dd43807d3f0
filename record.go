package sktable

import (
	"io"
)

// RecordReader iterates over the fixed-size records of a page file.
type RecordReader struct {
	r       io.ReadSeeker
	rec     *Record
	rows    int64
	metrics *Metrics

	pos    int64  // index of the next record
	raw    []byte // stored record
	native []byte // padded native buffer
	vals   []int64

	err error
}

// NewRecordReader creates a reader positioned at the first record.
func NewRecordReader(r io.ReadSeeker, t *Table, opts *Options) *RecordReader {
	o := opts.norm()
	rec := &t.Record
	return &RecordReader{
		r:       r,
		rec:     rec,
		rows:    t.RowCount,
		metrics: o.Metrics,
		raw:     make([]byte, rec.Size),
		native:  make([]byte, 0, rec.NativeSize()),
		vals:    make([]int64, 0, len(rec.Format)),
	}
}

// NumRecords returns the number of records.
func (r *RecordReader) NumRecords() int64 { return r.rows }

// Pos returns the index of the record that the next call to Next will read.
func (r *RecordReader) Pos() int64 { return r.pos }

// Seek positions the reader so that the next call to Next reads record row.
func (r *RecordReader) Seek(row int64) {
	if row < 0 {
		row = 0
	}
	if row > r.rows {
		row = r.rows
	}
	r.pos = row
	r.err = nil
}

// More returns true if more records can be read.
func (r *RecordReader) More() bool { return r.err == nil && r.pos < r.rows }

// Next reads and decodes the next record and returns true if successful.
func (r *RecordReader) Next() bool {
	if !r.More() {
		return false
	}

	if r.err = r.read(r.pos); r.err != nil {
		return false
	}
	r.pos++
	r.metrics.recordRead()
	return true
}

// Record returns the values of the current record, one per field. The slice
// is reused on the next cursor move.
func (r *RecordReader) Record() []int64 { return r.vals }

// Err exposes read errors, if any.
func (r *RecordReader) Err() error { return r.err }

func (r *RecordReader) read(row int64) error {
	off := row * int64(r.rec.Size)

	pos, err := r.r.Seek(off, io.SeekStart)
	if err != nil {
		return wrapError(KindIO, err, "seek record %d", row)
	}
	if pos != off {
		return newError(KindIO, "seek record %d: landed at %d, want %d", row, pos, off)
	}

	if _, err := io.ReadFull(r.r, r.raw); err != nil {
		return wrapError(KindIO, err, "read record %d", row)
	}

	r.vals = decodeRecord(r.vals[:0], r.native[:0], r.raw, r.rec)
	return nil
}

// decodeRecord widens raw per the padding plan and unpacks it per the
// native format.
func decodeRecord(dst []int64, native, raw []byte, rec *Record) []int64 {
	for _, seg := range rec.Plan {
		native = append(native, raw[seg.Start:seg.End]...)
		for i := 0; i < seg.Zero; i++ {
			native = append(native, 0)
		}
	}

	pos := 0
	for i := 1; i < len(rec.Format); i++ {
		code := rec.Format[i]
		w := formatWidth(code)
		dst = append(dst, decodeNative(code, native[pos:pos+w]))
		pos += w
	}
	return dst
}
