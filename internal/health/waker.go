package health

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/pixeltruth/pixeltruth/internal/httputil"
)

// WakerConfig controls how long Wake keeps polling a sleeping backend.
type WakerConfig struct {
	Attempts uint
	Delay    time.Duration
	// Timeout bounds each individual attempt
	Timeout time.Duration
	Logger  *slog.Logger
}

// Waker polls the health endpoint until a cold-started host answers.
// Free-tier hosts spin down when idle and take up to a minute to come
// back. Waker is an operator action; the Prober never retries.
type Waker struct {
	config *WakerConfig
	prober *Prober
}

func NewWaker(cfg *WakerConfig, prober *Prober) *Waker {
	if cfg == nil {
		cfg = &WakerConfig{}
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 12
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultProbeTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Waker{config: cfg, prober: prober}
}

// Wake returns the health document once the backend answers 200, or the
// last error after all attempts fail. The shared Status is updated with
// the final outcome.
func (w *Waker) Wake(ctx context.Context) (*httputil.HealthResponse, error) {
	var health *httputil.HealthResponse
	url := w.prober.URL()

	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
			defer cancel()

			h, err := httputil.FetchHealth(attemptCtx, w.prober.client, url)
			if err != nil {
				return err
			}
			health = h
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(w.config.Attempts),
		retry.Delay(w.config.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.config.Logger.Info("Backend still waking up",
				"url", url,
				"attempt", n+1,
				"max_attempts", w.config.Attempts,
				"error", err.Error(),
			)
		}),
	)

	w.prober.status.Set(err == nil)
	w.prober.config.Metrics.RecordProbe(err == nil)

	if err != nil {
		return nil, fmt.Errorf("backend did not wake after %d attempts: %w", w.config.Attempts, err)
	}

	w.config.Logger.Info("Backend is awake", "url", url, "status", health.Status)
	return health, nil
}
