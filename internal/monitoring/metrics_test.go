package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m := New(true)
	assert.NotNil(t, m)
	assert.True(t, m.enabled)

	m2 := New(false)
	assert.NotNil(t, m2)
	assert.False(t, m2.enabled)
}

func TestRecordRequest_Enabled(t *testing.T) {
	RequestsTotal.Reset()
	RequestDuration.Reset()

	m := New(true)
	m.RecordRequest("/api/analysis/analyze", 200, 100*time.Millisecond)
	m.RecordRequest("/api/analysis/analyze", 500, 150*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(RequestsTotal.WithLabelValues("/api/analysis/analyze", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(RequestsTotal.WithLabelValues("/api/analysis/analyze", "500")))
	assert.Equal(t, 1, testutil.CollectAndCount(RequestDuration))
}

func TestRecordRequest_Disabled(t *testing.T) {
	RequestsTotal.Reset()

	m := New(false)
	m.RecordRequest("/api/health", 200, time.Millisecond)

	assert.Equal(t, 0, testutil.CollectAndCount(RequestsTotal))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/api/health", 200, time.Millisecond)
		m.RecordRewrite("relative")
		m.RecordMockResponse("/api/health", "remote_unavailable")
		m.RecordRemoteError("/api/health")
		m.RecordProbe(true)
		m.RecordDemoFallback()
	})
}

func TestRecordRewriteAndMock(t *testing.T) {
	RewritesTotal.Reset()
	MockResponsesTotal.Reset()

	m := New(true)
	m.RecordRewrite("relative")
	m.RecordRewrite("relative")
	m.RecordRewrite("localhost")
	m.RecordMockResponse("/api/analysis/analyze", "network_error")

	assert.Equal(t, 2.0, testutil.ToFloat64(RewritesTotal.WithLabelValues("relative")))
	assert.Equal(t, 1.0, testutil.ToFloat64(RewritesTotal.WithLabelValues("localhost")))
	assert.Equal(t, 1.0, testutil.ToFloat64(MockResponsesTotal.WithLabelValues("/api/analysis/analyze", "network_error")))
}

func TestRecordProbe(t *testing.T) {
	ProbesTotal.Reset()

	m := New(true)
	m.RecordProbe(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(RemoteAvailable))
	assert.Equal(t, 1.0, testutil.ToFloat64(ProbesTotal.WithLabelValues("unavailable")))

	m.RecordProbe(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(RemoteAvailable))
	assert.Equal(t, 1.0, testutil.ToFloat64(ProbesTotal.WithLabelValues("available")))
}

func TestRecordDemoFallback(t *testing.T) {
	m := New(true)
	before := testutil.ToFloat64(DemoFallbacksTotal)
	m.RecordDemoFallback()
	assert.Equal(t, before+1, testutil.ToFloat64(DemoFallbacksTotal))
}
