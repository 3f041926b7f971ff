// xgxprom.go — Prometheus metrics for wrapped calls.
//
// Package xgxprom provides a Collector that doubles as an xgxexec.Observer:
//
//	<ns>_exec_calls_total{op,outcome}
//	<ns>_exec_duration_seconds{op}
//	<ns>_exec_deadline_exceeded_total
//	<ns>_exec_translated_total{code}
package xgxprom

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	xgxexec "github.com/xgx-io/xgx-exec"
)

// DefaultNamespace is used when NewCollector gets an empty namespace.
const DefaultNamespace = "xgx"

// Collector records one sample set per observed Event.
type Collector struct {
	calls      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	deadlines  prometheus.Counter
	translated *prometheus.CounterVec
}

// NewCollector builds unregistered metrics under namespace (DefaultNamespace
// when empty). Call Register before observing to expose them.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "exec",
				Name:      "calls_total",
				Help:      "Wrapped calls by wrapper and outcome.",
			},
			[]string{"op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "exec",
				Name:      "duration_seconds",
				Help:      "Wall-clock duration of timed and deadline-bound calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		deadlines: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "exec",
				Name:      "deadline_exceeded_total",
				Help:      "Calls failed by their own deadline.",
			},
		),
		translated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "exec",
				Name:      "translated_total",
				Help:      "Errors replaced by a normalizer, by resulting code.",
			},
			[]string{"code"},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.calls.Describe(ch)
	c.duration.Describe(ch)
	c.deadlines.Describe(ch)
	c.translated.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.calls.Collect(ch)
	c.duration.Collect(ch)
	c.deadlines.Collect(ch)
	c.translated.Collect(ch)
}

// Register adds c to reg (prometheus.DefaultRegisterer when nil).
func (c *Collector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return reg.Register(c)
}

// Observe implements xgxexec.Observer.
func (c *Collector) Observe(_ context.Context, ev xgxexec.Event) {
	op := string(ev.Op)
	c.calls.WithLabelValues(op, string(ev.Outcome)).Inc()
	if ev.Op != xgxexec.OpTranslate {
		c.duration.WithLabelValues(op).Observe(ev.Elapsed.Seconds())
	}
	switch ev.Outcome {
	case xgxexec.OutcomeDeadline:
		c.deadlines.Inc()
	case xgxexec.OutcomeTranslated:
		c.translated.WithLabelValues(string(xgxexec.CodeOf(ev.Err))).Inc()
	}
}

var (
	_ prometheus.Collector = (*Collector)(nil)
	_ xgxexec.Observer     = (*Collector)(nil)
)
