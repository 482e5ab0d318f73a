// Package startup wires the resolver stack shared by the gateway server
// and ptctl.
package startup

import (
	"fmt"
	"log/slog"

	"github.com/pixeltruth/pixeltruth/internal/config"
	"github.com/pixeltruth/pixeltruth/internal/health"
	"github.com/pixeltruth/pixeltruth/internal/httputil"
	"github.com/pixeltruth/pixeltruth/internal/mock"
	"github.com/pixeltruth/pixeltruth/internal/monitoring"
	"github.com/pixeltruth/pixeltruth/internal/resolver"
)

// Components are the long-lived pieces built from a Config.
type Components struct {
	Origin    string
	Status    *health.Status
	Prober    *health.Prober
	Waker     *health.Waker
	Responder *mock.Responder
	Rewriter  *resolver.Rewriter
	Resolver  *resolver.Resolver
}

// Build creates the component graph. raw is the network client; it is
// used directly by the prober and wrapped by the resolver. A nil raw gets
// a client with the configured request timeout.
func Build(cfg *config.Config, raw httputil.Client, log *slog.Logger, metrics *monitoring.Metrics) (*Components, error) {
	if raw == nil {
		raw = httputil.NewHTTPClient(&httputil.HTTPClientConfig{
			Timeout: cfg.Server.RequestTimeout,
		})
	}

	origin := cfg.RemoteOrigin()
	status := health.NewStatus()

	prober := health.NewProber(&health.ProberConfig{
		Origin:     origin,
		HealthPath: cfg.Remote.HealthPath,
		Timeout:    cfg.Remote.ProbeTimeout,
		Logger:     log,
		Metrics:    metrics,
	}, raw, status)

	waker := health.NewWaker(&health.WakerConfig{
		Attempts: cfg.Remote.WakeAttempts,
		Delay:    cfg.Remote.WakeDelay,
		Timeout:  cfg.Remote.ProbeTimeout,
		Logger:   log,
	}, prober)

	responder, err := mock.New(cfg.Demo.MockProfile, mock.NewSource(cfg.Demo.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to create mock responder: %w", err)
	}

	rewriter := resolver.NewRewriter(origin, cfg.Remote.DeployedHost, cfg.Remote.LocalHost)
	res := resolver.New(raw, rewriter, responder, status, log, metrics)

	return &Components{
		Origin:    origin,
		Status:    status,
		Prober:    prober,
		Waker:     waker,
		Responder: responder,
		Rewriter:  rewriter,
		Resolver:  res,
	}, nil
}

// LogRewriteRules reports the active URL rewrite rules at startup.
func (c *Components) LogRewriteRules(log *slog.Logger) {
	log.Info("Resolver configured",
		"origin", c.Origin,
		"mock_profile", c.Responder.Profile(),
		"rules", len(c.Rewriter.Rules()),
	)
	for _, rule := range c.Rewriter.Rules() {
		log.Debug("Rewrite rule",
			"kind", rule.Kind,
			"match", rule.Match,
		)
	}
}
