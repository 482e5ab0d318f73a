package health

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixeltruth/pixeltruth/internal/testhelpers"
)

func TestWake_SucceedsAfterColdStart(t *testing.T) {
	var srv *testhelpers.CountingServer
	srv = testhelpers.NewCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if srv.Calls() < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		testhelpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	status := NewStatus()
	w := NewWaker(&WakerConfig{
		Attempts: 5,
		Delay:    time.Millisecond,
		Logger:   testhelpers.NewTestLogger(),
	}, newTestProber(srv.URL, status, time.Second))

	health, err := w.Wake(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, int64(3), srv.Calls())
	assert.True(t, status.Available())
}

func TestWake_GivesUp(t *testing.T) {
	srv := testhelpers.NewCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	status := NewStatus()
	w := NewWaker(&WakerConfig{
		Attempts: 3,
		Delay:    time.Millisecond,
		Logger:   testhelpers.NewTestLogger(),
	}, newTestProber(srv.URL, status, time.Second))

	_, err := w.Wake(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not wake after 3 attempts")
	assert.Equal(t, int64(3), srv.Calls())
	assert.False(t, status.Available())
}

func TestWake_ContextCancelled(t *testing.T) {
	srv := testhelpers.NewCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	w := NewWaker(&WakerConfig{
		Attempts: 100,
		Delay:    time.Second,
		Logger:   testhelpers.NewTestLogger(),
	}, newTestProber(srv.URL, NewStatus(), time.Second))

	start := time.Now()
	_, err := w.Wake(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewWaker_Defaults(t *testing.T) {
	w := NewWaker(nil, newTestProber("http://example.invalid", NewStatus(), time.Second))
	assert.Equal(t, uint(12), w.config.Attempts)
	assert.Equal(t, 5*time.Second, w.config.Delay)
}
