package sktable

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

const catalogEntrySize = 8

// CatalogEntry holds the sizes of a single compressed page.
type CatalogEntry struct {
	Inflated uint32
	Deflated uint32
}

// PageOffset is the position of a page within the inflated and deflated
// address spaces.
type PageOffset struct {
	Inflated int64
	Deflated int64
}

// Catalog is the page index of a compressed storage file.
type Catalog struct {
	Entries []CatalogEntry
	Offsets []PageOffset // prefix sums of all preceding entries

	inflated, deflated int64
}

// ReadCatalog reads and parses a catalog file.
func ReadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(KindIO, err, "read catalog")
	}

	cat, err := ParseCatalog(data)
	if err != nil {
		if e, ok := err.(*Error); ok {
			err = e.Err
		}
		return nil, &Error{Kind: KindFormat, Err: errors.Wrapf(err, "catalog %s", path)}
	}
	return cat, nil
}

// ParseCatalog parses raw catalog data.
func ParseCatalog(data []byte) (*Catalog, error) {
	if len(data)%catalogEntrySize != 0 {
		return nil, newError(KindFormat, "catalog size %d is not a multiple of %d", len(data), catalogEntrySize)
	}

	n := len(data) / catalogEntrySize
	cat := &Catalog{
		Entries: make([]CatalogEntry, n),
		Offsets: make([]PageOffset, n),
	}

	for i := 0; i < n; i++ {
		p := data[i*catalogEntrySize:]
		ent := CatalogEntry{
			Inflated: binary.LittleEndian.Uint32(p[0:]),
			Deflated: binary.LittleEndian.Uint32(p[4:]),
		}

		cat.Entries[i] = ent
		cat.Offsets[i] = PageOffset{Inflated: cat.inflated, Deflated: cat.deflated}
		cat.inflated += int64(ent.Inflated)
		cat.deflated += int64(ent.Deflated)
	}
	return cat, nil
}

// NumPages returns the number of pages.
func (c *Catalog) NumPages() int { return len(c.Entries) }

// InflatedSize returns the total inflated length of all pages.
func (c *Catalog) InflatedSize() int64 { return c.inflated }

// DeflatedSize returns the total deflated length of all pages.
func (c *Catalog) DeflatedSize() int64 { return c.deflated }
