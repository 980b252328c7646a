// Package metrics exposes Prometheus metrics for analysis runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sells-group/route-profitability/internal/model"
)

// Registry holds the analyzer's Prometheus metrics on a private registry, so
// tests and multiple servers in one process never collide on registration.
type Registry struct {
	reg *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	PhaseDuration    *prometheus.HistogramVec
	RoutesAnalyzed   prometheus.Gauge
	ProfitableRoutes prometheus.Gauge
	AnnualProfit     prometheus.Gauge
}

// New initializes a Registry with all metrics registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "route_analyzer_runs_total",
				Help: "Analysis runs finished, by final status",
			},
			[]string{"status"},
		),
		PhaseDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "route_analyzer_phase_duration_seconds",
				Help:    "Pipeline phase execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"phase"},
		),
		RoutesAnalyzed: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "route_analyzer_routes_analyzed",
				Help: "Routes in the most recent completed run",
			},
		),
		ProfitableRoutes: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "route_analyzer_profitable_routes",
				Help: "Profitable routes in the most recent completed run",
			},
		),
		AnnualProfit: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "route_analyzer_annual_profit_usd",
				Help: "Total annual network profit of the most recent completed run",
			},
		),
	}
}

// Gatherer returns the underlying registry for exposition.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObservePhase records how long a pipeline phase took.
func (r *Registry) ObservePhase(phase string, d time.Duration) {
	r.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordRun counts a finished run. Summary gauges are only updated for
// completed runs with a summary.
func (r *Registry) RecordRun(status model.RunStatus, summary *model.RunSummary) {
	r.RunsTotal.WithLabelValues(string(status)).Inc()
	if status != model.RunStatusComplete || summary == nil {
		return
	}
	r.RoutesAnalyzed.Set(float64(summary.Stats.TotalRoutes))
	r.ProfitableRoutes.Set(float64(summary.Stats.ProfitableRoutes))
	r.AnnualProfit.Set(summary.Stats.TotalAnnualProfit)
}
