// Package metrics exposes evaluation runs as Prometheus metrics and writes
// them to a node_exporter textfile.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sartorproj/salescast/evaluate"
)

// Namespace prefixes every metric name.
const Namespace = "salescast"

// Step outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Recorder collects evaluation metrics in its own registry. It implements
// evaluate.Observer.
type Recorder struct {
	registry *prometheus.Registry

	StepsTotal   *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
	Score        *prometheus.GaugeVec
	Truncated    *prometheus.GaugeVec
	CacheLookups *prometheus.CounterVec
	RunDuration  prometheus.Gauge
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		StepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "evaluation_steps_total",
				Help:      "Evaluation steps by strategy and outcome",
			},
			[]string{"strategy", "status"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "evaluation_step_duration_seconds",
				Help:      "Time spent fitting and forecasting one evaluation step",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"strategy"},
		),
		Score: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "evaluation_score",
				Help:      "Aggregated error of the last run by strategy and metric (mae, rmse, mape)",
			},
			[]string{"strategy", "metric"},
		),
		Truncated: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "evaluation_truncated",
				Help:      "1 when the strategy stopped before the last step",
			},
			[]string{"strategy"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "forecast_cache_lookups_total",
				Help:      "Memoized forecast lookups by strategy and result (hit, miss)",
			},
			[]string{"strategy", "result"},
		),
		RunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Wall time of the last evaluation run",
			},
		),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveStep counts one evaluation step.
func (r *Recorder) ObserveStep(step evaluate.StepResult) {
	status := StatusSuccess
	if step.Err != nil {
		status = StatusFailure
	}
	r.StepsTotal.WithLabelValues(step.Strategy, status).Inc()
	r.StepDuration.WithLabelValues(step.Strategy).Observe(step.Elapsed.Seconds())
}

// RecordReport sets the score gauges from a finished run. Undefined
// metrics are not exported.
func (r *Recorder) RecordReport(report *evaluate.Report) {
	r.RunDuration.Set(report.Duration.Seconds())
	for _, s := range report.Scores {
		for metric, v := range map[string]float64{"mae": s.MAE, "rmse": s.RMSE, "mape": s.MAPE} {
			if math.IsNaN(v) {
				r.Score.DeleteLabelValues(s.Strategy, metric)
				continue
			}
			r.Score.WithLabelValues(s.Strategy, metric).Set(v)
		}
		truncated := 0.0
		if s.Truncated() {
			truncated = 1
		}
		r.Truncated.WithLabelValues(s.Strategy).Set(truncated)
	}
}

// RecordCache adds memoization hit and miss counts for a strategy.
func (r *Recorder) RecordCache(strategy string, hits, misses uint64) {
	r.CacheLookups.WithLabelValues(strategy, "hit").Add(float64(hits))
	r.CacheLookups.WithLabelValues(strategy, "miss").Add(float64(misses))
}

// WriteTextfile writes all metrics in the text exposition format,
// atomically replacing path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
