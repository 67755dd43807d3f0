package sktable

import (
	"bytes"
	"io"
	"log/slog"
	"sort"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// ItemStore provides ranged access to the payloads of a variable field.
type ItemStore interface {
	// Size returns the total length of the addressable data.
	Size() int64
	// ReadRange returns exactly n bytes starting at off.
	ReadRange(off, n int64) ([]byte, error)
}

// --------------------------------------------------------------------

// FileStore serves ranges from an uncompressed storage file.
type FileStore struct {
	r    io.ReaderAt
	size int64
}

// NewFileStore wraps a reader of a known size.
func NewFileStore(r io.ReaderAt, size int64) *FileStore {
	return &FileStore{r: r, size: size}
}

// Size implements ItemStore.
func (s *FileStore) Size() int64 { return s.size }

// ReadRange implements ItemStore.
func (s *FileStore) ReadRange(off, n int64) ([]byte, error) {
	if off < 0 || n < 0 || off+n > s.size {
		return nil, newError(KindRange, "range %d+%d out of range (size %d)", off, n, s.size)
	}

	buf := make([]byte, int(n))
	if n == 0 {
		return buf, nil
	}
	if m, err := s.r.ReadAt(buf, off); m != len(buf) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, wrapError(KindIO, err, "read %d bytes at %d", n, off)
	}
	return buf, nil
}

// --------------------------------------------------------------------

// BlobStore serves ranges of the inflated address space of a paged,
// deflate-compressed storage file. Only the pages covering a requested range
// are read and inflated; nothing is cached between calls.
type BlobStore struct {
	r   io.ReaderAt
	cat *Catalog

	logger  *slog.Logger
	metrics *Metrics
}

// NewBlobStore creates a store over the compressed file r indexed by cat.
func NewBlobStore(r io.ReaderAt, cat *Catalog, opts *Options) *BlobStore {
	o := opts.norm()
	return &BlobStore{
		r:       r,
		cat:     cat,
		logger:  o.Logger,
		metrics: o.Metrics,
	}
}

// Catalog returns the page catalog.
func (s *BlobStore) Catalog() *Catalog { return s.cat }

// Size implements ItemStore.
func (s *BlobStore) Size() int64 { return s.cat.InflatedSize() }

// ReadRange implements ItemStore.
func (s *BlobStore) ReadRange(off, n int64) ([]byte, error) {
	if off < 0 || n < 0 {
		return nil, newError(KindRange, "invalid range %d+%d", off, n)
	}
	if s.cat.NumPages() == 0 {
		return nil, newError(KindRange, "offset %d out of range: no pages", off)
	}
	if n == 0 {
		if off >= s.cat.InflatedSize() {
			return nil, newError(KindRange, "offset %d out of range", off)
		}
		return []byte{}, nil
	}

	first, err := s.pageOf(off)
	if err != nil {
		return nil, err
	}
	last, err := s.pageOf(off + n - 1)
	if err != nil {
		return nil, err
	}

	var buf []byte
	for i := first; i <= last; i++ {
		if buf, err = s.appendPage(buf, i); err != nil {
			return nil, err
		}
	}

	lo := off - s.cat.Offsets[first].Inflated
	if int64(len(buf)) < lo+n {
		return nil, newError(KindFormat, "pages %d..%d inflated to %d bytes, need %d", first, last, len(buf), lo+n)
	}
	return buf[lo : lo+n], nil
}

// Page returns the inflated contents of the n-th page.
func (s *BlobStore) Page(n int) ([]byte, error) {
	if n < 0 || n >= s.cat.NumPages() {
		return nil, newError(KindRange, "page %d out of range", n)
	}
	return s.appendPage(nil, n)
}

// pageOf returns the last page whose inflated offset is <= pos.
func (s *BlobStore) pageOf(pos int64) (int, error) {
	offs := s.cat.Offsets
	n := sort.Search(len(offs), func(i int) bool {
		return offs[i].Inflated > pos
	})
	if n < len(offs) {
		return n - 1, nil
	}

	// beyond the start of the last page
	if pos < s.cat.InflatedSize() {
		return len(offs) - 1, nil
	}
	return -1, newError(KindRange, "offset %d out of range", pos)
}

func (s *BlobStore) appendPage(dst []byte, n int) ([]byte, error) {
	ent := s.cat.Entries[n]
	if ent.Deflated == 0 {
		return dst, nil
	}

	raw := make([]byte, int(ent.Deflated))
	if m, err := s.r.ReadAt(raw, s.cat.Offsets[n].Deflated); m != len(raw) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, wrapError(KindIO, err, "read page %d", n)
	}

	var rc io.ReadCloser
	if isZlibHeader(raw) {
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, wrapError(KindFormat, err, "page %d", n)
		}
		rc = zr
	} else {
		rc = flate.NewReader(bytes.NewReader(raw))
	}
	defer rc.Close()

	buf := bytes.NewBuffer(dst)
	before := buf.Len()
	if _, err := io.Copy(buf, rc); err != nil {
		return nil, wrapError(KindFormat, err, "inflate page %d", n)
	}

	size := buf.Len() - before
	s.metrics.pageInflated(size)
	s.logger.Debug("sktable: inflated page", "page", n, "deflated", ent.Deflated, "inflated", size)
	return buf.Bytes(), nil
}

// isZlibHeader reports whether p starts with a valid zlib stream header
// using the deflate method.
func isZlibHeader(p []byte) bool {
	if len(p) < 2 {
		return false
	}
	cmf, flg := p[0], p[1]
	return cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}
