package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gauges/counters a Client exposes. Join only
// constructs and registers the set; nothing in this module increments
// or sets them. Grounded on annel0-mmo-game's
// eventbus.MetricsExporter (internal/eventbus/metrics.go) — a counter
// per event class plus an in-flight gauge. Unlike that exporter this
// one doesn't register into the global prometheus.DefaultRegisterer or
// start its own HTTP server: a Client is a library embedded into a
// caller's process, so the caller supplies the Registerer (spec.md §1
// "library, not a daemon").
type Metrics struct {
	TicksTotal      prometheus.Counter
	PacketsIn       prometheus.Counter
	PacketsOut      prometheus.Counter
	TickDuration    prometheus.Histogram
	EntitiesTracked prometheus.Gauge
	ChunksLoaded    prometheus.Gauge
	PathfindNodes   prometheus.Counter
}

// NewMetrics constructs and registers a Metrics set against reg. Pass
// prometheus.NewRegistry() for an isolated set (the usual case for a
// library embedded in a larger program) or prometheus.DefaultRegisterer
// to join the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vibeclient",
			Name:      "ticks_total",
			Help:      "Number of fixed GameTick schedule runs executed.",
		}),
		PacketsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vibeclient",
			Name:      "packets_in_total",
			Help:      "Clientbound packets decoded.",
		}),
		PacketsOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vibeclient",
			Name:      "packets_out_total",
			Help:      "Serverbound packets written.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vibeclient",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent running one GameTick schedule pass.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		EntitiesTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vibeclient",
			Name:      "entities_tracked",
			Help:      "Entities currently present in the entity store.",
		}),
		ChunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vibeclient",
			Name:      "chunks_loaded",
			Help:      "Chunk columns currently held by the world store.",
		}),
		PathfindNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vibeclient",
			Name:      "pathfind_nodes_expanded_total",
			Help:      "A* nodes expanded across all pathfinding searches.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.TicksTotal, m.PacketsIn, m.PacketsOut, m.TickDuration,
			m.EntitiesTracked, m.ChunksLoaded, m.PathfindNodes)
	}
	return m
}
