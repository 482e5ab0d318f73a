package testhelpers

import (
	"github.com/pixeltruth/pixeltruth/internal/config"
)

// NewTestConfig returns the default configuration pointed at origin, with
// demo delays disabled so tests do not sleep.
func NewTestConfig(origin string) *config.Config {
	cfg := config.Default()
	cfg.Remote.ProductionURL = origin
	cfg.Remote.DevelopmentURL = origin
	cfg.Demo.DelayScale = 0
	cfg.Demo.Seed = 42
	cfg.Monitoring.PrometheusEnabled = false
	return cfg
}
