package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type AnalysisMetrics struct {
	service string

	analysisTotal     *prometheus.CounterVec
	analysisDuration  *prometheus.HistogramVec
	analysisInFlight  prometheus.Gauge
	paletteTotal      *prometheus.CounterVec
	sideEffectFailure *prometheus.CounterVec
}

func NewAnalysisMetrics(service string, registerer prometheus.Registerer) *AnalysisMetrics {
	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylesage",
			Subsystem: "analysis",
			Name:      "total",
			Help:      "Total analyses by status.",
		},
		[]string{"service", "status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stylesage",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Analysis duration in seconds by status.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"service", "status"},
	)
	analysisInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stylesage",
			Subsystem: "analysis",
			Name:      "in_flight",
			Help:      "Number of in-flight analyses.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	paletteTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylesage",
			Subsystem: "analysis",
			Name:      "palette_total",
			Help:      "Completed analyses by detected palette.",
		},
		[]string{"service", "palette"},
	)
	sideEffectFailure := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylesage",
			Subsystem: "analysis",
			Name:      "side_effect_failures_total",
			Help:      "Failed archive, persist and publish steps.",
		},
		[]string{"service", "effect"},
	)

	registerer.MustRegister(analysisTotal, analysisDuration, analysisInFlight, paletteTotal, sideEffectFailure)

	return &AnalysisMetrics{
		service:           service,
		analysisTotal:     analysisTotal,
		analysisDuration:  analysisDuration,
		analysisInFlight:  analysisInFlight,
		paletteTotal:      paletteTotal,
		sideEffectFailure: sideEffectFailure,
	}
}

func (m *AnalysisMetrics) StartAnalysis() {
	m.analysisInFlight.Inc()
}

func (m *AnalysisMetrics) FinishAnalysis(palette string, duration time.Duration, err error) {
	m.analysisInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.analysisTotal.WithLabelValues(m.service, status).Inc()
	m.analysisDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
	if err == nil && palette != "" {
		m.paletteTotal.WithLabelValues(m.service, palette).Inc()
	}
}

func (m *AnalysisMetrics) RecordSideEffectFailure(effect string) {
	m.sideEffectFailure.WithLabelValues(m.service, effect).Inc()
}
