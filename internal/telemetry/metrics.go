package telemetry

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus series recorded during benchmark runs.
type Metrics struct {
	// RunsTotal counts finished runs by outcome ("ok" or "error").
	RunsTotal *prometheus.CounterVec
	// StepDuration tracks how long each pipeline step takes.
	StepDuration *prometheus.HistogramVec
	// MeasuredSeconds is the last measured time per digit count.
	MeasuredSeconds *prometheus.GaugeVec
	// SizeScore is the last score per digit count.
	SizeScore *prometheus.GaugeVec
	// TotalScore is the total score of the last run.
	TotalScore prometheus.Gauge
}

// NewMetrics creates the metric set and registers it with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intbench_runs_total",
				Help: "Total number of benchmark runs by outcome",
			},
			[]string{"status"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intbench_step_duration_seconds",
				Help:    "Duration of pipeline steps in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
		MeasuredSeconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "intbench_measured_seconds",
				Help: "Last measured time per digit count in seconds",
			},
			[]string{"digits"},
		),
		SizeScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "intbench_size_score",
				Help: "Last score per digit count",
			},
			[]string{"digits"},
		),
		TotalScore: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "intbench_total_score",
				Help: "Total score of the last benchmark run",
			},
		),
	}

	reg.MustRegister(m.RunsTotal, m.StepDuration, m.MeasuredSeconds, m.SizeScore, m.TotalScore)
	return m
}

// ObserveScore records the measured time and score for one digit count.
func (m *Metrics) ObserveScore(digits int, seconds float64, score int) {
	label := strconv.Itoa(digits)
	m.MeasuredSeconds.WithLabelValues(label).Set(seconds)
	m.SizeScore.WithLabelValues(label).Set(float64(score))
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Default returns the process-wide metric set, registering it with the
// default Prometheus registry on first use.
func Default() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// Handler serves the default registry, for embedding in tests or other muxes.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer exposes /metrics on addr. It blocks, so callers start it
// in a goroutine.
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	LogInfo("Starting metrics server", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
