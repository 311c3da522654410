package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalysisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tradelens",
			Subsystem: "engine",
			Name:      "latency_seconds",
			Help:      "Latency of analysis endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	AnalysisErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradelens",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Errors by analysis endpoint",
		},
		[]string{"endpoint"},
	)

	ActiveZones = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tradelens",
			Subsystem: "engine",
			Name:      "active_zones",
			Help:      "Unmitigated zones in the latest analysis",
		},
		[]string{"symbol", "type"},
	)

	SignalsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradelens",
			Subsystem: "engine",
			Name:      "signals_dispatched_total",
			Help:      "Signals delivered downstream",
		},
		[]string{"symbol", "type"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalysisLatency, AnalysisErrors, ActiveZones, SignalsDispatched)
	})
}
