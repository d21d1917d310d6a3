// Package observability provides structured logging and Prometheus run metrics.
package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "capledger"

// RunMetrics holds the metrics of one batch run on a private registry.
type RunMetrics struct {
	registry *prometheus.Registry

	// Run metrics
	RunsTotal     *prometheus.CounterVec
	PhaseDuration *prometheus.HistogramVec
	LastSuccess   prometheus.Gauge

	// Ledger metrics
	GamesChecked    prometheus.Counter
	EntriesAppended prometheus.Counter
	OutOfOrderGames prometheus.Counter
	Mismatches      *prometheus.CounterVec

	// Projection metrics
	ProjectedCap *prometheus.GaugeVec
	Headroom     *prometheus.GaugeVec
	TeamsOverCap prometheus.Gauge

	// Storage metrics
	StoreDuration *prometheus.HistogramVec
	StoreErrors   *prometheus.CounterVec
}

// NewRunMetrics creates a RunMetrics instance with all metrics registered.
func NewRunMetrics() *RunMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &RunMetrics{
		registry: reg,

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "total",
			Help:      "Total number of runs by status",
		}, []string{"status"}),
		PhaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "phase_duration_seconds",
			Help:      "Duration of run phases",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"phase"}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),

		GamesChecked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "games_checked_total",
			Help:      "Logged team games reconciled against the rosters",
		}),
		EntriesAppended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entries_appended_total",
			Help:      "Ledger entries appended",
		}),
		OutOfOrderGames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "out_of_order_games_total",
			Help:      "Played games found after an unplayed game",
		}),
		Mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "mismatches_total",
			Help:      "Reconciliation mismatches by team",
		}, []string{"team"}),

		ProjectedCap: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "projected_cap",
			Help:      "Projected season average cap by team",
		}, []string{"team"}),
		Headroom: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "headroom",
			Help:      "Cap space for the remaining games by team",
		}, []string{"team"}),
		TeamsOverCap: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "teams_over_cap",
			Help:      "Teams projected over the cap ceiling",
		}),

		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store", "operation"}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Store operation errors",
		}, []string{"store", "operation"}),
	}
}

// Registry returns the private registry.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun records a finished run.
func (m *RunMetrics) RecordRun(err error, finished time.Time) {
	if err != nil {
		m.RunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.RunsTotal.WithLabelValues("ok").Inc()
	m.LastSuccess.Set(float64(finished.Unix()))
}

// ObservePhase records how long a run phase took.
func (m *RunMetrics) ObservePhase(phase string, d time.Duration) {
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordStoreOp records a store operation.
func (m *RunMetrics) RecordStoreOp(store, operation string, d time.Duration, err error) {
	m.StoreDuration.WithLabelValues(store, operation).Observe(d.Seconds())
	if err != nil {
		m.StoreErrors.WithLabelValues(store, operation).Inc()
	}
}

// RecordProjection sets a team's projection gauges.
func (m *RunMetrics) RecordProjection(team string, projected, headroom float64) {
	m.ProjectedCap.WithLabelValues(team).Set(projected)
	m.Headroom.WithLabelValues(team).Set(headroom)
}

// Push sends the registry to a Prometheus Pushgateway, replacing the job's metrics.
func (m *RunMetrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
