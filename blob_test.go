package sktable_test

import (
	"bytes"
	"math/rand"

	"github.com/bsm/sktable"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ = Describe("BlobStore", func() {
	var subject *sktable.BlobStore
	var metrics *sktable.Metrics

	var page0 = bytes.Repeat([]byte{'a'}, 100)
	var page1 = bytes.Repeat([]byte{'b'}, 50)

	inflated := func() float64 { return testutil.ToFloat64(metrics.PagesInflated) }

	// Two pages with inflated sizes [100, 50], each followed by zero padding
	// that is included in its deflated size:
	//
	// P0: 0..99   "aaa..."
	// P1: 100..149 "bbb..."
	//
	BeforeEach(func() {
		data, raw := compressPages([][]byte{page0, page1}, false, 7, 3)
		cat, err := sktable.ParseCatalog(raw)
		Expect(err).NotTo(HaveOccurred())

		metrics = sktable.NewMetrics(prometheus.NewRegistry())
		subject = sktable.NewBlobStore(bytes.NewReader(data), cat, &sktable.Options{Metrics: metrics})
	})

	It("should init", func() {
		Expect(subject.Size()).To(Equal(int64(150)))
		Expect(subject.Catalog().NumPages()).To(Equal(2))

		ents := subject.Catalog().Entries
		Expect(ents[0].Inflated).To(Equal(uint32(100)))
		Expect(ents[1].Inflated).To(Equal(uint32(50)))
		Expect(subject.Catalog().Offsets[1].Deflated).To(Equal(int64(ents[0].Deflated)))
		Expect(subject.Catalog().DeflatedSize()).To(Equal(int64(ents[0].Deflated + ents[1].Deflated)))
	})

	It("should tolerate padded pages", func() {
		plain, raw := compressPages([][]byte{page0, page1}, false)
		padded, rawPadded := compressPages([][]byte{page0, page1}, false, 7, 3)
		Expect(len(padded)).To(Equal(len(plain) + 10))

		cat, err := sktable.ParseCatalog(raw)
		Expect(err).NotTo(HaveOccurred())
		catPadded, err := sktable.ParseCatalog(rawPadded)
		Expect(err).NotTo(HaveOccurred())
		Expect(catPadded.Entries[0].Deflated).To(Equal(cat.Entries[0].Deflated + 7))
		Expect(catPadded.Entries[1].Deflated).To(Equal(cat.Entries[1].Deflated + 3))

		Expect(subject.ReadRange(0, 150)).To(Equal(append(append([]byte{}, page0...), page1...)))
	})

	It("should read ranges across page boundaries", func() {
		Expect(subject.ReadRange(95, 10)).To(Equal([]byte("aaaaabbbbb")))
		Expect(inflated()).To(Equal(2.0))
	})

	It("should read ranges within a page", func() {
		Expect(subject.ReadRange(0, 3)).To(Equal([]byte("aaa")))
		Expect(subject.ReadRange(99, 1)).To(Equal([]byte("a")))
		Expect(inflated()).To(Equal(2.0))
	})

	It("should not pull in preceding pages", func() {
		Expect(subject.ReadRange(100, 5)).To(Equal([]byte("bbbbb")))
		Expect(inflated()).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.BytesInflated)).To(Equal(50.0))
	})

	It("should read up to the last byte", func() {
		Expect(subject.ReadRange(149, 1)).To(Equal([]byte("b")))
		Expect(subject.ReadRange(140, 10)).To(Equal(bytes.Repeat([]byte{'b'}, 10)))
		Expect(subject.ReadRange(0, 150)).To(Equal(append(append([]byte{}, page0...), page1...)))
	})

	It("should reject out of range requests", func() {
		_, err := subject.ReadRange(149, 2)
		Expect(err).To(MatchError(sktable.ErrRange))
		Expect(err).To(MatchError(`sktable: offset 150 out of range`))

		_, err = subject.ReadRange(150, 1)
		Expect(err).To(MatchError(sktable.ErrRange))

		_, err = subject.ReadRange(-1, 1)
		Expect(err).To(MatchError(sktable.ErrRange))
	})

	It("should return empty ranges inside the store", func() {
		Expect(subject.ReadRange(50, 0)).To(BeEmpty())
		Expect(subject.ReadRange(149, 0)).To(BeEmpty())
		Expect(inflated()).To(Equal(0.0))

		_, err := subject.ReadRange(150, 0)
		Expect(err).To(MatchError(`sktable: offset 150 out of range`))
		_, err = subject.ReadRange(151, 0)
		Expect(err).To(MatchError(sktable.ErrRange))
	})

	It("should return pages", func() {
		Expect(subject.Page(1)).To(Equal(page1))

		_, err := subject.Page(2)
		Expect(err).To(MatchError(sktable.ErrRange))
	})

	It("should reject empty catalogs", func() {
		cat, err := sktable.ParseCatalog(nil)
		Expect(err).NotTo(HaveOccurred())

		empty := sktable.NewBlobStore(bytes.NewReader(nil), cat, nil)
		_, err = empty.ReadRange(0, 1)
		Expect(err).To(MatchError(sktable.ErrRange))
		_, err = empty.ReadRange(0, 0)
		Expect(err).To(MatchError(`sktable: offset 0 out of range: no pages`))
	})

	It("should fail on truncated data", func() {
		data, raw := compressPages([][]byte{page0, page1}, false)
		cat, err := sktable.ParseCatalog(raw)
		Expect(err).NotTo(HaveOccurred())

		short := sktable.NewBlobStore(bytes.NewReader(data[:len(data)-4]), cat, nil)
		_, err = short.ReadRange(120, 1)
		Expect(err).To(MatchError(sktable.ErrIO))
	})

	It("should fail on corrupt pages", func() {
		_, raw := compressPages([][]byte{page0}, false)
		cat, err := sktable.ParseCatalog(raw)
		Expect(err).NotTo(HaveOccurred())

		junk := bytes.Repeat([]byte{0xff}, int(cat.DeflatedSize()))
		corrupt := sktable.NewBlobStore(bytes.NewReader(junk), cat, nil)
		_, err = corrupt.ReadRange(0, 1)
		Expect(err).To(MatchError(sktable.ErrFormat))
	})

	It("should match full inflation for any range", func() {
		rnd := rand.New(rand.NewSource(1))
		plain := make([]byte, 4000)
		for i := range plain {
			plain[i] = byte('a' + rnd.Intn(8))
		}

		for _, raw := range []bool{false, true} {
			data, rawCat := compressPages(splitPages(plain, 1000, 1, 0, 999, 500, 1500), raw)
			cat, err := sktable.ParseCatalog(rawCat)
			Expect(err).NotTo(HaveOccurred())

			store := sktable.NewBlobStore(bytes.NewReader(data), cat, nil)
			Expect(store.Size()).To(Equal(int64(len(plain))))

			for i := 0; i < 500; i++ {
				off := rnd.Int63n(int64(len(plain)))
				n := rnd.Int63n(int64(len(plain))-off) + 1
				Expect(store.ReadRange(off, n)).To(Equal(plain[off:off+n]), "for %d+%d (raw: %v)", off, n, raw)
			}

			for _, off := range []int64{999, 1000, 1001, 2000, 2499, 2500, 3999} {
				Expect(store.ReadRange(off, 1)).To(Equal(plain[off:off+1]), "for %d (raw: %v)", off, raw)
			}
		}
	})
})

var _ = Describe("FileStore", func() {
	var subject *sktable.FileStore

	BeforeEach(func() {
		subject = sktable.NewFileStore(bytes.NewReader([]byte("0123456789")), 10)
	})

	It("should read ranges", func() {
		Expect(subject.Size()).To(Equal(int64(10)))
		Expect(subject.ReadRange(2, 3)).To(Equal([]byte("234")))
		Expect(subject.ReadRange(9, 1)).To(Equal([]byte("9")))
		Expect(subject.ReadRange(10, 0)).To(BeEmpty())
	})

	It("should reject out of range requests", func() {
		_, err := subject.ReadRange(8, 3)
		Expect(err).To(MatchError(sktable.ErrRange))
	})

	It("should fail on short reads", func() {
		short := sktable.NewFileStore(bytes.NewReader([]byte("0123")), 10)
		_, err := short.ReadRange(2, 5)
		Expect(err).To(MatchError(sktable.ErrIO))
	})
})
