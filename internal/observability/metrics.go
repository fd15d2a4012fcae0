package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider, operation and outcome",
		},
		[]string{"provider", "operation", "status"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"provider", "operation"},
	)
	QuestionsGenerated = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "interview_questions_generated",
			Help:    "Number of questions surviving parsing per upload",
			Buckets: []float64{0, 1, 3, 5, 10, 15, 20},
		},
	)
	RecordingsSavedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recordings_saved_total",
			Help: "Total number of saved interview recordings",
		},
		[]string{"backend"},
	)
)

var registerOnce sync.Once

// RegisterMetrics registers all collectors with the default registry.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			AIRequestsTotal,
			AIRequestDuration,
			QuestionsGenerated,
			RecordingsSavedTotal,
		)
	})
}
