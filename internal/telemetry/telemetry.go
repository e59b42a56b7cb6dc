// Package telemetry exports analysis metrics in the Prometheus format.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// shutdownTimeout bounds the graceful stop of the metrics server.
const shutdownTimeout = 5 * time.Second

// Metrics collects analysis and optimization metrics.
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal      *prometheus.CounterVec
	analysisDuration   *prometheus.HistogramVec
	greenScore         *prometheus.HistogramVec
	energyWh           *prometheus.CounterVec
	co2Grams           *prometheus.CounterVec
	suggestionsTotal   *prometheus.CounterVec
	optimizationsTotal *prometheus.CounterVec
	scoreImprovement   prometheus.Histogram
}

var _ core.Observer = &Metrics{} // Compile-time check

// NewMetrics creates the collectors on a private registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenscore_analyses_total",
			Help: "Total count of analyses by language and region.",
		}, []string{"language", "region"}),
		analysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "greenscore_analysis_duration_seconds",
			Help:    "Histogram of analysis durations by language.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"language"}),
		greenScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "greenscore_green_score",
			Help:    "Distribution of green scores by language.",
			Buckets: prometheus.LinearBuckets(10, 10, 9),
		}, []string{"language"}),
		energyWh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenscore_energy_wh_total",
			Help: "Sum of predicted energy per execution in watt hours.",
		}, []string{"language"}),
		co2Grams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenscore_co2_grams_total",
			Help: "Sum of predicted CO2 per execution in grams.",
		}, []string{"region"}),
		suggestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenscore_suggestions_total",
			Help: "Total count of suggestions by severity.",
		}, []string{"severity"}),
		optimizationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenscore_optimizations_total",
			Help: "Total count of optimizations by language and whether the code changed.",
		}, []string{"language", "changed"}),
		scoreImprovement: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "greenscore_optimization_score_improvement",
			Help:    "Histogram of expected green score improvements.",
			Buckets: []float64{-10, 0, 5, 10, 20, 30, 50},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.analysesTotal,
		m.analysisDuration,
		m.greenScore,
		m.energyWh,
		m.co2Grams,
		m.suggestionsTotal,
		m.optimizationsTotal,
		m.scoreImprovement,
	)
	return m
}

// ObserveAnalysis implements core.Observer.
func (m *Metrics) ObserveAnalysis(result *schema.AnalysisResult, elapsed time.Duration) {
	language := string(result.Language)
	m.analysesTotal.WithLabelValues(language, string(result.Region)).Inc()
	m.analysisDuration.WithLabelValues(language).Observe(elapsed.Seconds())
	m.greenScore.WithLabelValues(language).Observe(result.Metrics.GreenScore)
	if result.Metrics.EnergyWh > 0 {
		m.energyWh.WithLabelValues(language).Add(result.Metrics.EnergyWh)
	}
	if result.Metrics.CO2g > 0 {
		m.co2Grams.WithLabelValues(string(result.Region)).Add(result.Metrics.CO2g)
	}
	for _, s := range result.Suggestions {
		m.suggestionsTotal.WithLabelValues(string(s.Severity)).Inc()
	}
}

// ObserveOptimization implements core.Observer.
func (m *Metrics) ObserveOptimization(result *schema.OptimizationResult, _ time.Duration) {
	changed := "false"
	if result.CodeChanged {
		changed = "true"
	}
	m.optimizationsTotal.WithLabelValues(string(result.DetectedLanguage), changed).Inc()
	m.scoreImprovement.Observe(result.ExpectedGreenScoreImprovement)
}

// Handler returns the scrape handler of the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logrus.FieldLogger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
