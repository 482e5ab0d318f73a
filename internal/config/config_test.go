package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 9090
  request_timeout: 45s
  logging_level: debug
  max_upload_size_mb: 20
  static_dir: ./dist

remote:
  environment: development
  production_url: "https://pixel-truth.onrender.com/"
  development_url: "http://localhost:5000"
  health_path: /api/health
  probe_timeout: 3s
  deployed_host: github.io

demo:
  enabled: true
  delay_scale: 0
  mock_profile: legacy
  seed: 7

monitoring:
  prometheus_enabled: false
  health_check_path: "/gateway/health"
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "debug", cfg.Server.LoggingLevel)
	assert.Equal(t, 20, cfg.Server.MaxUploadSizeMB)
	assert.Equal(t, "./dist", cfg.Server.StaticDir)

	assert.Equal(t, EnvironmentDevelopment, cfg.Remote.Environment)
	assert.Equal(t, "https://pixel-truth.onrender.com", cfg.Remote.ProductionURL, "trailing slash is trimmed")
	assert.Equal(t, "http://localhost:5000", cfg.RemoteOrigin())
	assert.Equal(t, 3*time.Second, cfg.Remote.ProbeTimeout)

	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, 0.0, cfg.Demo.DelayScale)
	assert.Equal(t, ProfileLegacy, cfg.Demo.MockProfile)
	assert.Equal(t, uint64(7), cfg.Demo.Seed)

	assert.False(t, cfg.Monitoring.PrometheusEnabled)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 8081
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, defaults.Server.RequestTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, defaults.Remote.ProbeTimeout, cfg.Remote.ProbeTimeout)
	assert.Equal(t, "https://pixel-truth.onrender.com", cfg.RemoteOrigin())
	assert.Equal(t, ProfileBackend, cfg.Demo.MockProfile)
	assert.Equal(t, "/gateway/health", cfg.Monitoring.HealthCheckPath)
}

func TestLoad_EnvironmentReference(t *testing.T) {
	t.Setenv("PT_BACKEND_URL", "https://backend.example.com")

	configPath := writeConfig(t, `
remote:
  production_url: os.environ/PT_BACKEND_URL
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "https://backend.example.com", cfg.RemoteOrigin())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://override.example.com")
	t.Setenv(EnvDemoMode, "true")

	configPath := writeConfig(t, `
demo:
  enabled: false
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", cfg.RemoteOrigin())
	assert.True(t, cfg.Demo.Enabled)
}

func TestLoad_InvalidDemoModeEnv(t *testing.T) {
	t.Setenv(EnvDemoMode, "maybe")

	_, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvDemoMode)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeout = 0 }, "invalid request_timeout"},
		{"zero upload size", func(c *Config) { c.Server.MaxUploadSizeMB = 0 }, "invalid max_upload_size_mb"},
		{"bad logging level", func(c *Config) { c.Server.LoggingLevel = "trace" }, "invalid logging_level"},
		{"bad environment", func(c *Config) { c.Remote.Environment = "staging" }, "invalid environment"},
		{"bad production url", func(c *Config) { c.Remote.ProductionURL = "ftp://x" }, "production_url must use http or https"},
		{"relative health path", func(c *Config) { c.Remote.HealthPath = "api/health" }, "health_path must start with '/'"},
		{"zero probe timeout", func(c *Config) { c.Remote.ProbeTimeout = 0 }, "invalid probe_timeout"},
		{"zero wake attempts", func(c *Config) { c.Remote.WakeAttempts = 0 }, "invalid wake_attempts"},
		{"unknown mock profile", func(c *Config) { c.Demo.MockProfile = "v3" }, "invalid mock_profile"},
		{"zero max analyses", func(c *Config) { c.Demo.MaxAnalyses = 0 }, "invalid max_analyses"},
		{"gateway health under api", func(c *Config) { c.Monitoring.HealthCheckPath = "/api/health" }, "must not be under /api/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{
		Remote: RemoteConfig{
			Environment:   "Development",
			ProductionURL: "https://pixel-truth.onrender.com///",
		},
		Demo: DemoConfig{DelayScale: -2},
	}
	cfg.Normalize()

	assert.Equal(t, EnvironmentDevelopment, cfg.Remote.Environment)
	assert.Equal(t, "https://pixel-truth.onrender.com//", cfg.Remote.ProductionURL, "only one trailing slash is trimmed")
	assert.Equal(t, "info", cfg.Server.LoggingLevel)
	assert.Equal(t, ProfileBackend, cfg.Demo.MockProfile)
	assert.Equal(t, 0.0, cfg.Demo.DelayScale)
}
