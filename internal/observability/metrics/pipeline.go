package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// PipelineMetrics implements ports.PipelineObserver.
type PipelineMetrics struct {
	service string

	stageDuration  *prometheus.HistogramVec
	classifyTotal  *prometheus.CounterVec
	labelTotal     *prometheus.CounterVec
	confidenceHist *prometheus.HistogramVec
}

func NewPipelineMetrics(service string, registerer prometheus.Registerer) *PipelineMetrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Classification stage duration in seconds by status.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"service", "stage", "status"},
	)
	classifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "classifications_total",
			Help:      "Total classification attempts by media type and outcome.",
		},
		[]string{"service", "media_type", "outcome"},
	)
	labelTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "predicted_labels_total",
			Help:      "Total successful classifications by predicted label.",
		},
		[]string{"service", "label"},
	)
	confidenceHist := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "confidence_percent",
			Help:      "Confidence of successful classifications in percent.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
		},
		[]string{"service"},
	)

	registerer.MustRegister(stageDuration, classifyTotal, labelTotal, confidenceHist)

	return &PipelineMetrics{
		service:        service,
		stageDuration:  stageDuration,
		classifyTotal:  classifyTotal,
		labelTotal:     labelTotal,
		confidenceHist: confidenceHist,
	}
}

func (m *PipelineMetrics) ObserveStage(stage string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.stageDuration.WithLabelValues(m.service, stage, status).Observe(duration.Seconds())
}

func (m *PipelineMetrics) ObserveClassification(mediaType domain.MediaType, label string, confidence float64, err error) {
	m.classifyTotal.WithLabelValues(m.service, mediaType.Short(), domain.Reason(err)).Inc()
	if err != nil {
		return
	}
	m.labelTotal.WithLabelValues(m.service, label).Inc()
	m.confidenceHist.WithLabelValues(m.service).Observe(confidence)
}
