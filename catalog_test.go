package sktable_test

import (
	"github.com/bsm/sktable"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalog", func() {
	It("should parse entries and offsets", func() {
		cat, err := sktable.ParseCatalog(pack([]int{4}, 100, 40, 50, 20, 0, 0, 7, 9))
		Expect(err).NotTo(HaveOccurred())
		Expect(cat.NumPages()).To(Equal(4))
		Expect(cat.Entries).To(Equal([]sktable.CatalogEntry{
			{Inflated: 100, Deflated: 40},
			{Inflated: 50, Deflated: 20},
			{Inflated: 0, Deflated: 0},
			{Inflated: 7, Deflated: 9},
		}))
		Expect(cat.Offsets).To(Equal([]sktable.PageOffset{
			{Inflated: 0, Deflated: 0},
			{Inflated: 100, Deflated: 40},
			{Inflated: 150, Deflated: 60},
			{Inflated: 150, Deflated: 60},
		}))
		Expect(cat.InflatedSize()).To(Equal(int64(157)))
		Expect(cat.DeflatedSize()).To(Equal(int64(69)))
	})

	It("should maintain prefix sums", func() {
		var vals []int64
		for i := int64(0); i < 64; i++ {
			vals = append(vals, (i*7919)%4096, (i*104729)%2048)
		}

		cat, err := sktable.ParseCatalog(pack([]int{4}, vals...))
		Expect(err).NotTo(HaveOccurred())
		Expect(cat.Offsets[0]).To(Equal(sktable.PageOffset{}))

		for i := 0; i+1 < cat.NumPages(); i++ {
			Expect(cat.Offsets[i+1].Inflated - cat.Offsets[i].Inflated).To(Equal(int64(cat.Entries[i].Inflated)))
			Expect(cat.Offsets[i+1].Deflated - cat.Offsets[i].Deflated).To(Equal(int64(cat.Entries[i].Deflated)))
		}
	})

	It("should parse empty catalogs", func() {
		cat, err := sktable.ParseCatalog(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cat.NumPages()).To(Equal(0))
		Expect(cat.InflatedSize()).To(Equal(int64(0)))
	})

	It("should reject bad sizes", func() {
		_, err := sktable.ParseCatalog(make([]byte, 12))
		Expect(err).To(MatchError(sktable.ErrFormat))
		Expect(err).To(MatchError(`sktable: catalog size 12 is not a multiple of 8`))
	})

	It("should read files", func() {
		fx := newFixture()
		defer fx.Close()

		cat, err := sktable.ReadCatalog(fx.Write("a.cat", pack([]int{4}, 10, 5)))
		Expect(err).NotTo(HaveOccurred())
		Expect(cat.NumPages()).To(Equal(1))

		_, err = sktable.ReadCatalog(fx.Path("missing.cat"))
		Expect(err).To(MatchError(sktable.ErrIO))
	})

	It("should name the file on bad catalogs", func() {
		fx := newFixture()
		defer fx.Close()

		path := fx.Write("bad.cat", make([]byte, 12))
		_, err := sktable.ReadCatalog(path)
		Expect(err).To(MatchError(sktable.ErrFormat))
		Expect(err).To(MatchError("sktable: catalog " + path + ": catalog size 12 is not a multiple of 8"))
	})
})
