package sktable

import "os"

// Reader is a read session over a table. It owns the page file handle and one
// handle per distinct variable storage file until Close is called.
type Reader struct {
	t *Table
	o *Options

	page   *os.File
	files  []*os.File
	stores []ItemStore // per field, nil for fixed fields
}

// Open opens a read session.
func Open(t *Table, opts *Options) (*Reader, error) {
	r := &Reader{
		t:      t,
		o:      opts.norm(),
		stores: make([]ItemStore, len(t.Fields)),
	}
	if err := r.open(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) open() error {
	page, err := os.Open(r.t.PagePath)
	if err != nil {
		return wrapError(KindIO, err, "open page file")
	}
	r.page = page

	handles := make(map[string]*os.File)
	for i := range r.t.Fields {
		f := &r.t.Fields[i]
		if !f.IsVariable() {
			continue
		}

		fh, ok := handles[f.Path]
		if !ok {
			if fh, err = os.Open(f.Path); err != nil {
				return wrapError(KindIO, err, "open storage of %s", f.Name)
			}
			r.files = append(r.files, fh)
			handles[f.Path] = fh
		}

		if f.Compression != NoCompression {
			cat, err := ReadCatalog(f.CatalogPath)
			if err != nil {
				return err
			}
			r.stores[i] = NewBlobStore(fh, cat, r.o)
			continue
		}

		fi, err := fh.Stat()
		if err != nil {
			return wrapError(KindIO, err, "stat storage of %s", f.Name)
		}
		r.stores[i] = NewFileStore(fh, fi.Size())
	}
	return nil
}

// Table returns the table descriptor.
func (r *Reader) Table() *Table { return r.t }

// Store returns the item store of a variable field, or nil.
func (r *Reader) Store(field int) ItemStore {
	if field < 0 || field >= len(r.stores) {
		return nil
	}
	return r.stores[field]
}

// Records returns a record iterator starting at row.
func (r *Reader) Records(row int64) (*RecordReader, error) {
	if r.page == nil {
		return nil, &Error{Kind: KindIO, Err: errClosed}
	}

	rr := NewRecordReader(r.page, r.t, r.o)
	rr.Seek(row)
	return rr, nil
}

// Close releases all file handles.
func (r *Reader) Close() error {
	var err error
	if r.page != nil {
		err = r.page.Close()
		r.page = nil
	}
	for _, f := range r.files {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}
	r.files = nil
	return wrapError(KindIO, err, "close")
}
