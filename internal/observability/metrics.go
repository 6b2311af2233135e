package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// simulation engine and its adapters.
type Metrics struct {
	EventsIngested  prometheus.Counter
	EventsProduced  prometheus.Counter // synthetic producer ticks
	IngestErrors    prometheus.Counter
	EngineRunning   prometheus.Gauge
	SnapshotCells   prometheus.Gauge
	HotspotCount    prometheus.Gauge
	FlushesTotal    prometheus.Counter
	FlushDuration   prometheus.Histogram
	StatisticsCache *prometheus.CounterVec // labels: result={hit,miss}

	// Kafka bridge metrics (zero-valued when the bridge is disabled).
	KafkaConsumed  prometheus.Counter
	KafkaPublished prometheus.Counter
	KafkaErrors    prometheus.Counter
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EventsIngested,
		m.EventsProduced,
		m.IngestErrors,
		m.EngineRunning,
		m.SnapshotCells,
		m.HotspotCount,
		m.FlushesTotal,
		m.FlushDuration,
		m.StatisticsCache,
		m.KafkaConsumed,
		m.KafkaPublished,
		m.KafkaErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardata",
			Name:      "events_ingested_total",
			Help:      "Raw observations merged into the accumulator.",
		}),
		EventsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardata",
			Name:      "events_produced_total",
			Help:      "Observations synthesized by the background producer.",
		}),
		IngestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardata",
			Name:      "ingest_errors_total",
			Help:      "Raw observations rejected for an invalid cell id.",
		}),
		EngineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cardata",
			Name:      "engine_running",
			Help:      "1 while the periodic producer and flush loops are active.",
		}),
		SnapshotCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cardata",
			Name:      "snapshot_cells",
			Help:      "Cells in the currently published snapshot.",
		}),
		HotspotCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cardata",
			Name:      "hotspots",
			Help:      "Hotspot records in the static ledger.",
		}),
		FlushesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardata",
			Name:      "flushes_total",
			Help:      "Completed accumulator-to-snapshot flushes.",
		}),
		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cardata",
			Name:      "flush_duration_seconds",
			Help:      "Duration of a snapshot build and swap.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		StatisticsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cardata",
			Name:      "statistics_cache_total",
			Help:      "Per-cell statistics cache lookups by result.",
		}, []string{"result"}),
		KafkaConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardata",
			Name:      "kafka_consumed_total",
			Help:      "Raw observations consumed from the source topic.",
		}),
		KafkaPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardata",
			Name:      "kafka_published_total",
			Help:      "Cell summaries published to the sink topic.",
		}),
		KafkaErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardata",
			Name:      "kafka_errors_total",
			Help:      "Kafka consume/publish failures.",
		}),
	}
}
