package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixeltruth/pixeltruth/internal/httputil"
	"github.com/pixeltruth/pixeltruth/internal/monitoring"
)

const defaultProbeTimeout = 5 * time.Second

// ProberConfig contains configuration for the one-shot health probe.
type ProberConfig struct {
	// Origin is the remote backend origin, e.g. https://pixel-truth.onrender.com
	Origin string
	// HealthPath is appended to Origin, e.g. /api/health
	HealthPath string
	// Timeout bounds the whole probe
	Timeout time.Duration
	Logger  *slog.Logger
	Metrics *monitoring.Metrics
}

// Prober checks the remote health endpoint once and records the result
// in a Status. It must be given the raw HTTP client: probing through the
// resolver would answer from the mock table.
type Prober struct {
	config *ProberConfig
	client httputil.Client
	status *Status
}

// NewProber creates a new prober writing into status.
func NewProber(cfg *ProberConfig, client httputil.Client, status *Status) *Prober {
	if cfg == nil {
		cfg = &ProberConfig{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultProbeTimeout
	}
	if cfg.HealthPath == "" {
		cfg.HealthPath = "/api/health"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Prober{
		config: cfg,
		client: client,
		status: status,
	}
}

// URL returns the full health endpoint address.
func (p *Prober) URL() string {
	return p.config.Origin + p.config.HealthPath
}

// Probe performs a single GET against the health endpoint. HTTP 200 marks
// the remote available; anything else (network error, non-OK status,
// timeout) marks it unavailable. There are no retries.
func (p *Prober) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	start := time.Now()
	health, err := httputil.FetchHealth(ctx, p.client, p.URL())
	elapsed := time.Since(start)

	available := err == nil
	p.status.Set(available)
	p.config.Metrics.RecordProbe(available)

	if err != nil {
		p.config.Logger.Warn("Remote backend unavailable, mock responses enabled",
			"url", p.URL(),
			"error", err.Error(),
			"duration", elapsed,
		)
		return false
	}

	p.config.Logger.Info("Remote backend available",
		"url", p.URL(),
		"status", health.Status,
		"ai_model", health.AIModel,
		"duration", elapsed,
	)
	return true
}

// Start runs Probe once in a background goroutine. The returned channel
// receives the result and is then closed.
func (p *Prober) Start(ctx context.Context) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		defer close(done)
		done <- p.Probe(ctx)
	}()
	return done
}
