package sktable

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects read and export statistics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	PagesInflated prometheus.Counter
	BytesInflated prometheus.Counter
	RecordsRead   prometheus.Counter
	RowsExported  *prometheus.CounterVec
}

// NewMetrics creates metrics and registers them with reg, if not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PagesInflated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sktable_pages_inflated_total",
			Help: "Number of compressed pages inflated",
		}),
		BytesInflated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sktable_bytes_inflated_total",
			Help: "Number of bytes produced by page inflation",
		}),
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sktable_records_read_total",
			Help: "Number of fixed records decoded",
		}),
		RowsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sktable_rows_exported_total",
			Help: "Number of rows handed to a sink",
		}, []string{"table"}),
	}

	if reg != nil {
		reg.MustRegister(m.PagesInflated, m.BytesInflated, m.RecordsRead, m.RowsExported)
	}
	return m
}

func (m *Metrics) pageInflated(n int) {
	if m == nil {
		return
	}
	m.PagesInflated.Inc()
	m.BytesInflated.Add(float64(n))
}

func (m *Metrics) recordRead() {
	if m == nil {
		return
	}
	m.RecordsRead.Inc()
}

func (m *Metrics) rowExported(table string) {
	if m == nil {
		return
	}
	m.RowsExported.WithLabelValues(table).Inc()
}
