package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixel_truth_gateway_requests_total",
			Help: "Total number of API requests passed through the resolver",
		},
		[]string{"route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pixel_truth_gateway_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route"},
	)

	RewritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixel_truth_gateway_rewrites_total",
			Help: "Total number of API URLs rewritten, by matching rule",
		},
		[]string{"rule"},
	)

	MockResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixel_truth_gateway_mock_responses_total",
			Help: "Total number of mock responses served instead of the remote backend",
		},
		[]string{"route", "reason"},
	)

	RemoteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixel_truth_gateway_remote_errors_total",
			Help: "Total number of transport errors talking to the remote backend",
		},
		[]string{"route"},
	)

	RemoteAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pixel_truth_gateway_remote_available",
			Help: "Result of the last health probe (1 = available, 0 = unavailable)",
		},
	)

	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixel_truth_gateway_probes_total",
			Help: "Total number of health probes, by result",
		},
		[]string{"result"},
	)

	DemoFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pixel_truth_gateway_demo_fallbacks_total",
			Help: "Total number of sessions that fell back from remote to demo mode",
		},
	)
)

type Metrics struct {
	enabled bool
}

func New(enabled bool) *Metrics {
	return &Metrics{
		enabled: enabled,
	}
}

// isEnabled also guards against a nil *Metrics so components can run without one.
func (m *Metrics) isEnabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) RecordRequest(route string, statusCode int, duration time.Duration) {
	if !m.isEnabled() {
		return
	}

	RequestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) RecordRewrite(rule string) {
	if !m.isEnabled() {
		return
	}
	RewritesTotal.WithLabelValues(rule).Inc()
}

func (m *Metrics) RecordMockResponse(route, reason string) {
	if !m.isEnabled() {
		return
	}
	MockResponsesTotal.WithLabelValues(route, reason).Inc()
}

func (m *Metrics) RecordRemoteError(route string) {
	if !m.isEnabled() {
		return
	}
	RemoteErrorsTotal.WithLabelValues(route).Inc()
}

func (m *Metrics) RecordProbe(available bool) {
	if !m.isEnabled() {
		return
	}
	result := "unavailable"
	value := 0.0
	if available {
		result = "available"
		value = 1.0
	}
	ProbesTotal.WithLabelValues(result).Inc()
	RemoteAvailable.Set(value)
}

func (m *Metrics) RecordDemoFallback() {
	if !m.isEnabled() {
		return
	}
	DemoFallbacksTotal.Inc()
}
