// Package metrics exports chain progress as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome label values.
const (
	OutcomeDone   = "done"
	OutcomeFailed = "failed"
)

// Metrics holds the collectors of one process on a private registry.
type Metrics struct {
	Registry  *prometheus.Registry
	cells     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	remaining *prometheus.GaugeVec
}

// New registers the voxport collectors, plus the Go and process collectors,
// on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		cells: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voxport_cells_total",
				Help: "Cells processed, by job and outcome.",
			},
			[]string{"job", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voxport_cell_duration_seconds",
				Help:    "Wall time of one cell, both phases included.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"job"},
		),
		remaining: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "voxport_cells_remaining",
				Help: "Cells left in the current range.",
			},
			[]string{"job"},
		),
	}
	m.Registry.MustRegister(
		m.cells, m.duration, m.remaining,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns chain callbacks that record every cell.
func (m *Metrics) Hooks() domain.JobHooks {
	return domain.JobHooks{
		OnCellStart: func(_ context.Context, e *domain.CellEvent) {
			m.remaining.WithLabelValues(e.Job).Set(float64(e.RangeTotal - e.RangeIndex + 1))
		},
		OnCellDone: func(_ context.Context, e *domain.CellEvent) {
			m.cells.WithLabelValues(e.Job, OutcomeDone).Inc()
			m.duration.WithLabelValues(e.Job).Observe(e.Duration.Seconds())
			m.remaining.WithLabelValues(e.Job).Set(float64(e.RangeTotal - e.RangeIndex))
		},
		OnCellFailed: func(_ context.Context, e *domain.CellEvent) {
			m.cells.WithLabelValues(e.Job, OutcomeFailed).Inc()
		},
	}
}
