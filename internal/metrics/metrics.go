package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Remote prediction calls
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solar_predictions_total", Help: "Prediction requests by outcome"},
		[]string{"outcome"},
	)
	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solar_prediction_duration_seconds", Help: "Latency of prediction requests", Buckets: prometheus.DefBuckets},
	)
	InFlightPredictions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "solar_predictions_in_flight", Help: "Prediction requests awaiting a response"},
	)

	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solar_exports_total", Help: "Dashboard exports by format"},
		[]string{"format"},
	)
	HookFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solar_prediction_hook_failures_total", Help: "Failed post-prediction hooks by hook"},
		[]string{"hook"},
	)
	StreamSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "solar_dashboard_stream_subscribers", Help: "Open dashboard websocket streams"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry; safe to call more than once
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(PredictionsTotal, PredictionDuration, InFlightPredictions, ExportsTotal, HookFailures, StreamSubscribers)
	})
}

// Handler registers the collectors and returns the /metrics handler
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
