package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "strokeguard"

// Metrics owns a private Prometheus registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	predictions      *prometheus.CounterVec
	encoderFallbacks *prometheus.CounterVec
	modelLoaded      prometheus.Gauge

	generationRequests *prometheus.CounterVec
	generationLatency  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds by method/route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_inflight_requests",
			Help:      "In-flight API requests.",
		}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Scoring requests by outcome (positive, negative, error, unavailable).",
		}, []string{"outcome"}),
		encoderFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_fallbacks_total",
			Help:      "Category values unseen at training time that were encoded with the fallback code.",
		}, []string{"column"}),
		modelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_loaded",
			Help:      "1 when a model bundle is loaded, 0 when scoring is degraded.",
		}),
		generationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Text generation calls by kind (advice, fact) and outcome.",
		}, []string{"kind", "outcome"}),
		generationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Text generation latency in seconds by kind.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 90, 120},
		}, []string{"kind"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.predictions,
		m.encoderFallbacks,
		m.modelLoaded,
		m.generationRequests,
		m.generationLatency,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncPrediction(outcome string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncEncoderFallback(column string) {
	if m == nil {
		return
	}
	m.encoderFallbacks.WithLabelValues(column).Inc()
}

func (m *Metrics) SetModelLoaded(loaded bool) {
	if m == nil {
		return
	}
	if loaded {
		m.modelLoaded.Set(1)
		return
	}
	m.modelLoaded.Set(0)
}

func (m *Metrics) ObserveGeneration(kind, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.generationRequests.WithLabelValues(kind, outcome).Inc()
	m.generationLatency.WithLabelValues(kind).Observe(dur.Seconds())
}
