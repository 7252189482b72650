// Package metrics exports sweep progress as Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gaussian-ca-simulation/internal/sweep"
)

// Recorder implements sweep.Observer on top of its own registry.
type Recorder struct {
	registry *prometheus.Registry

	trials        prometheus.Counter
	trialDuration prometheus.Histogram
	points        prometheus.Counter
	lastParam     prometheus.Gauge
	meanOfMeans   prometheus.Gauge
	stdOfMeans    prometheus.Gauge
}

var _ sweep.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gca_trials_total",
			Help: "Total number of completed trials",
		}),
		trialDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gca_trial_duration_seconds",
			Help:    "Wall time of a single trial",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gca_sweep_points_total",
			Help: "Total number of published sweep points",
		}),
		lastParam: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gca_sweep_threshold",
			Help: "Threshold of the most recently published sweep point",
		}),
		meanOfMeans: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gca_sweep_mean_of_means",
			Help: "Mean of trial means at the most recently published sweep point",
		}),
		stdOfMeans: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gca_sweep_std_of_means",
			Help: "Population std of trial means at the most recently published sweep point",
		}),
	}
	r.registry.MustRegister(r.trials, r.trialDuration, r.points, r.lastParam, r.meanOfMeans, r.stdOfMeans)
	return r
}

func (r *Recorder) TrialDone(_ float64, _ int, _ float64, elapsed time.Duration) {
	r.trials.Inc()
	r.trialDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) PointDone(_ int, p sweep.Point) {
	r.points.Inc()
	r.lastParam.Set(p.Param)
	r.meanOfMeans.Set(p.MeanOfMeans)
	r.stdOfMeans.Set(p.StdOfMeans)
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
