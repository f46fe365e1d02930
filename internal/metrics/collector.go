// Package metrics provides internal metrics collection for the canvas engine.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector aggregates the engine's prometheus instruments.
type Collector struct {
	// editing
	mutationsTotal *prometheus.CounterVec
	historyDepth   prometheus.Gauge
	graphNodes     prometheus.Gauge
	graphEdges     prometheus.Gauge

	// composition
	compositionsTotal *prometheus.CounterVec

	// persistence
	storeOpDuration *prometheus.HistogramVec
	storeOpErrors   *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector registers the engine instruments on reg. A nil reg uses the
// default registerer; tests pass their own prometheus.NewRegistry so that
// multiple editors never collide.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.mutationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Total number of canvas mutations",
		},
		[]string{"op"},
	)

	c.historyDepth = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_depth",
			Help:      "Number of snapshots retained in the undo history",
		},
	)

	c.graphNodes = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in the live graph",
		},
	)

	c.graphEdges = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Number of edges in the live graph",
		},
	)

	c.compositionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compositions_total",
			Help:      "Total number of template and sub-workflow applications",
		},
		[]string{"kind"},
	)

	c.storeOpDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_op_duration_seconds",
			Help:      "Persistence collaborator operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	c.storeOpErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_op_errors_total",
			Help:      "Total number of failed persistence operations",
		},
		[]string{"op"},
	)

	return c
}

// RecordMutation counts one editing operation.
func (c *Collector) RecordMutation(op string) {
	if c == nil {
		return
	}
	c.mutationsTotal.WithLabelValues(op).Inc()
}

// RecordComposition counts one template or sub-workflow application.
func (c *Collector) RecordComposition(kind string) {
	if c == nil {
		return
	}
	c.compositionsTotal.WithLabelValues(kind).Inc()
}

// SetGraphSize records the live node/edge counts and history depth.
func (c *Collector) SetGraphSize(nodes, edges, historyDepth int) {
	if c == nil {
		return
	}
	c.graphNodes.Set(float64(nodes))
	c.graphEdges.Set(float64(edges))
	c.historyDepth.Set(float64(historyDepth))
}

// ObserveStoreOp records the duration and outcome of one persistence call.
func (c *Collector) ObserveStoreOp(op string, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.storeOpDuration.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		c.storeOpErrors.WithLabelValues(op).Inc()
	}
}
