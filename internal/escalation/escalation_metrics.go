package escalation

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the escalation subsystem.
type Metrics struct {
	CreatesTotal       *prometheus.CounterVec
	StatusUpdatesTotal *prometheus.CounterVec
	ListsTotal         *prometheus.CounterVec
	NotesTotal         prometheus.Counter
	StoreSize          prometheus.Gauge
}

// NewMetrics registers and returns escalation metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CreatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "handoff_escalation_creates_total",
			Help: "Total escalation create attempts by intake source and result.",
		}, []string{"source", "result"}),
		StatusUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "handoff_escalation_status_updates_total",
			Help: "Total escalation status updates by result.",
		}, []string{"result"}),
		ListsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "handoff_escalation_lists_total",
			Help: "Total dashboard list queries by status filter.",
		}, []string{"status"}),
		NotesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "handoff_escalation_notes_total",
			Help: "Total notes added to escalations.",
		}),
		StoreSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "handoff_escalation_store_records",
			Help: "Escalation records currently held in the in-memory store.",
		}),
	}

	reg.MustRegister(
		m.CreatesTotal,
		m.StatusUpdatesTotal,
		m.ListsTotal,
		m.NotesTotal,
		m.StoreSize,
	)

	return m
}

// nil-safe increment helpers so the Service works without metrics in tests.

func (m *Metrics) incCreate(source, result string) {
	if m == nil {
		return
	}
	m.CreatesTotal.WithLabelValues(source, result).Inc()
}

func (m *Metrics) incStatusUpdate(result string) {
	if m == nil {
		return
	}
	m.StatusUpdatesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) incList(status string) {
	if m == nil {
		return
	}
	if status == "" {
		status = "all"
	}
	m.ListsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) incNote() {
	if m == nil {
		return
	}
	m.NotesTotal.Inc()
}

func (m *Metrics) incStoreSize() {
	if m == nil {
		return
	}
	m.StoreSize.Inc()
}
