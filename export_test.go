package sktable_test

import (
	"errors"

	"github.com/bsm/sktable"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// memorySink collects exported tables.
type memorySink struct {
	columns map[string][]sktable.Column
	rows    map[string][][]interface{}
	failAt  int
}

func newMemorySink() *memorySink {
	return &memorySink{
		columns: make(map[string][]sktable.Column),
		rows:    make(map[string][][]interface{}),
		failAt:  -1,
	}
}

func (s *memorySink) WriteTable(name string, rows sktable.RowStream) error {
	s.columns[name] = rows.Columns()
	for rows.Next() {
		if len(s.rows[name]) == s.failAt {
			return errors.New("disk full")
		}
		s.rows[name] = append(s.rows[name], append([]interface{}(nil), rows.Row()...))
	}
	return rows.Err()
}

var _ = Describe("Export", func() {
	var fx *fixture
	var table *sktable.Table
	var sink *memorySink

	BeforeEach(func() {
		fx = newFixture()
		table = seedWords(fx)
		sink = newMemorySink()
	})

	AfterEach(func() {
		fx.Close()
	})

	It("should export typed rows", func() {
		metrics := sktable.NewMetrics(prometheus.NewRegistry())
		Expect(sktable.Export(table, "", nil, sink, &sktable.ExportOptions{
			Options: sktable.Options{Metrics: metrics},
			Strip:   true,
		})).To(Succeed())

		Expect(sink.columns).To(HaveKey("words"))
		Expect(sink.columns["words"]).To(Equal([]sktable.Column{
			{Name: "ID", Kind: sktable.IntegerColumn},
			{Name: "HEADWORD", Kind: sktable.TextColumn},
			{Name: "BODY", Kind: sktable.BinaryColumn},
		}))
		Expect(sink.rows["words"]).To(Equal([][]interface{}{
			{int64(1), "abandoned", []byte("\xff\x01")},
			{int64(2), "", []byte{}},
			{int64(3), "acknowledgment", []byte("hello")},
			{int64(4), "zeal", []byte{}},
		}))
		Expect(testutil.ToFloat64(metrics.RowsExported.WithLabelValues("words"))).To(Equal(4.0))
		Expect(testutil.ToFloat64(metrics.RecordsRead)).To(Equal(4.0))
	})

	It("should export selected columns under a name", func() {
		Expect(sktable.Export(table, "dict", []string{"HEADWORD", "ID"}, sink, nil)).To(Succeed())
		Expect(sink.columns["dict"]).To(Equal([]sktable.Column{
			{Name: "HEADWORD", Kind: sktable.TextColumn},
			{Name: "ID", Kind: sktable.IntegerColumn},
		}))
		Expect(sink.rows["dict"]).To(HaveLen(4))
		Expect(sink.rows["dict"][2]).To(Equal([]interface{}{"acknowledgment\x00", int64(3)}))
	})

	It("should reject empty tables", func() {
		fx.Write("empty.dat", nil)
		empty := fx.Load("empty.ini", "[DAT]\nPATH = empty.dat\n$ID = uint16\n")

		err := sktable.Export(empty, "", nil, sink, nil)
		Expect(err).To(MatchError(sktable.ErrEmptyTable))
		Expect(err).To(MatchError(sktable.ErrSink))
		Expect(err).To(MatchError(`sktable: table empty: empty table`))
		Expect(sink.columns).To(BeEmpty())
	})

	It("should reject unsupported column types", func() {
		table.Fields[2].TypeName = "blob"

		err := sktable.Export(table, "", nil, sink, nil)
		Expect(err).To(MatchError(sktable.ErrSink))
		Expect(err).To(MatchError(`sktable: column BODY: unsupported column type "blob"`))
	})

	It("should reject invalid text", func() {
		table.Fields[2].TypeName = "text"

		err := sktable.Export(table, "", []string{"ID", "BODY"}, sink, nil)
		Expect(err).To(MatchError(sktable.ErrEncoding))
		Expect(sink.rows["words"]).To(BeEmpty())
	})

	It("should wrap sink failures", func() {
		sink.failAt = 2

		err := sktable.Export(table, "", nil, sink, nil)
		Expect(err).To(MatchError(sktable.ErrSink))
		Expect(err).To(MatchError(ContainSubstring("disk full")))
		Expect(sink.rows["words"]).To(HaveLen(2))
	})

	It("should report column kinds", func() {
		kinds := make([]sktable.ColumnKind, 0, len(table.Fields))
		for i := range table.Fields {
			kind, ok := table.Fields[i].ColumnKind()
			Expect(ok).To(BeTrue())
			kinds = append(kinds, kind)
		}
		Expect(kinds).To(Equal([]sktable.ColumnKind{sktable.IntegerColumn, sktable.TextColumn, sktable.BinaryColumn}))
		Expect(sktable.TextColumn.String()).To(Equal("text"))
	})
})
