package partnership

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the partnership store.
type Metrics struct {
	// Reload attempts by origin (init, manual, watcher) and result
	ReloadsTotal *prometheus.CounterVec

	// Save attempts by result
	SavesTotal *prometheus.CounterVec

	// Size of the published configuration
	Partners     prometheus.Gauge
	Partnerships prometheus.Gauge

	// Unix time of the last published reload
	LastReload prometheus.Gauge

	// Duration of read + parse
	LoadDuration prometheus.Histogram
}

// NewMetrics registers the store metrics with reg. A nil reg uses a private
// registry, which keeps repeated construction in tests from colliding.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		ReloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "partnerplane_partnership_reloads_total",
			Help: "Total partnership reloads by origin and result",
		}, []string{"origin", "result"}), // result: "published", "discarded", "failed"

		SavesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "partnerplane_partnership_saves_total",
			Help: "Total partnership saves by result",
		}, []string{"result"}),

		Partners: factory.NewGauge(prometheus.GaugeOpts{
			Name: "partnerplane_partners",
			Help: "Number of partners in the published configuration",
		}),

		Partnerships: factory.NewGauge(prometheus.GaugeOpts{
			Name: "partnerplane_partnerships",
			Help: "Number of partnerships in the published configuration",
		}),

		LastReload: factory.NewGauge(prometheus.GaugeOpts{
			Name: "partnerplane_partnership_last_reload_timestamp_seconds",
			Help: "Unix time of the last published partnership reload",
		}),

		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "partnerplane_partnership_load_duration_seconds",
			Help:    "Duration of reading and parsing the partnership file",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementReload records a reload attempt.
func (m *Metrics) IncrementReload(origin, result string) {
	if m != nil {
		m.ReloadsTotal.WithLabelValues(origin, result).Inc()
	}
}

// IncrementSave records a save attempt.
func (m *Metrics) IncrementSave(result string) {
	if m != nil {
		m.SavesTotal.WithLabelValues(result).Inc()
	}
}

// ObserveLoad records how long a load took.
func (m *Metrics) ObserveLoad(d time.Duration) {
	if m != nil {
		m.LoadDuration.Observe(d.Seconds())
	}
}

// SetPublished updates the gauges for a newly published snapshot.
func (m *Metrics) SetPublished(snap *Snapshot) {
	if m == nil {
		return
	}
	m.Partners.Set(float64(snap.Partners.Len()))
	m.Partnerships.Set(float64(snap.Partnerships.Len()))
	m.LastReload.Set(float64(snap.LoadedAt.Unix()))
}
