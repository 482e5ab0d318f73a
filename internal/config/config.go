package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment selects which remote origin the resolver targets.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
)

const (
	ProfileBackend = "backend"
	ProfileLegacy  = "legacy"
)

// Environment variables that override file values, mirroring the
// build-time flags of the browser bundle.
const (
	EnvAPIURL   = "PIXELTRUTH_API_URL"
	EnvDemoMode = "PIXELTRUTH_DEMO_MODE"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Remote     RemoteConfig     `yaml:"remote"`
	Demo       DemoConfig       `yaml:"demo"`
	Session    SessionConfig    `yaml:"session"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	LoggingLevel    string        `yaml:"logging_level"`
	MaxUploadSizeMB int           `yaml:"max_upload_size_mb"`
	StaticDir       string        `yaml:"static_dir"`
}

type RemoteConfig struct {
	Environment    Environment   `yaml:"environment"`
	ProductionURL  string        `yaml:"production_url"`
	DevelopmentURL string        `yaml:"development_url"`
	HealthPath     string        `yaml:"health_path"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	DeployedHost   string        `yaml:"deployed_host"`
	LocalHost      string        `yaml:"local_host"`
	WakeAttempts   uint          `yaml:"wake_attempts"`
	WakeDelay      time.Duration `yaml:"wake_delay"`
}

type DemoConfig struct {
	Enabled     bool    `yaml:"enabled"`
	DelayScale  float64 `yaml:"delay_scale"`
	MockProfile string  `yaml:"mock_profile"`
	Seed        uint64  `yaml:"seed"`
	MaxAnalyses int     `yaml:"max_analyses"`
}

type SessionConfig struct {
	StorePath string `yaml:"store_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `yaml:"prometheus_enabled"`
	HealthCheckPath   string `yaml:"health_check_path"`
}

// Default returns the built-in configuration. Load starts from it, so a
// config file only needs the values it changes.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			RequestTimeout:  30 * time.Second,
			LoggingLevel:    "info",
			MaxUploadSizeMB: 50,
		},
		Remote: RemoteConfig{
			Environment:    EnvironmentProduction,
			ProductionURL:  "https://pixel-truth.onrender.com",
			DevelopmentURL: "http://localhost:5000",
			HealthPath:     "/api/health",
			ProbeTimeout:   5 * time.Second,
			DeployedHost:   "github.io",
			LocalHost:      "localhost",
			WakeAttempts:   12,
			WakeDelay:      5 * time.Second,
		},
		Demo: DemoConfig{
			DelayScale:  1,
			MockProfile: ProfileBackend,
			MaxAnalyses: 1000,
		},
		Session: SessionConfig{
			StorePath: "~/.pixeltruth/session.json",
		},
		Monitoring: MonitoringConfig{
			PrometheusEnabled: true,
			HealthCheckPath:   "/gateway/health",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv applies PIXELTRUTH_API_URL and PIXELTRUTH_DEMO_MODE on top of the
// loaded values. The URL override replaces the origin of the selected
// environment only.
func (c *Config) ApplyEnv() error {
	if apiURL := os.Getenv(EnvAPIURL); apiURL != "" {
		if c.Remote.Environment == EnvironmentDevelopment {
			c.Remote.DevelopmentURL = apiURL
		} else {
			c.Remote.ProductionURL = apiURL
		}
	}

	if demo := os.Getenv(EnvDemoMode); demo != "" {
		enabled, err := strconv.ParseBool(demo)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDemoMode, err)
		}
		c.Demo.Enabled = enabled
	}

	return nil
}

// Normalize cleans up configuration values
func (c *Config) Normalize() {
	c.Remote.ProductionURL = strings.TrimSuffix(resolveEnvString(c.Remote.ProductionURL), "/")
	c.Remote.DevelopmentURL = strings.TrimSuffix(resolveEnvString(c.Remote.DevelopmentURL), "/")
	c.Session.StorePath = resolveEnvString(c.Session.StorePath)
	c.Server.StaticDir = resolveEnvString(c.Server.StaticDir)

	if c.Remote.Environment == "" {
		c.Remote.Environment = EnvironmentProduction
	}
	c.Remote.Environment = Environment(strings.ToLower(string(c.Remote.Environment)))

	if c.Server.LoggingLevel == "" {
		c.Server.LoggingLevel = "info"
	}
	if c.Demo.MockProfile == "" {
		c.Demo.MockProfile = ProfileBackend
	}
	if c.Demo.DelayScale < 0 {
		c.Demo.DelayScale = 0
	}
}

// RemoteOrigin returns the backend origin for the configured environment.
func (c *Config) RemoteOrigin() string {
	if c.Remote.Environment == EnvironmentDevelopment {
		return c.Remote.DevelopmentURL
	}
	return c.Remote.ProductionURL
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request_timeout: %v", c.Server.RequestTimeout)
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("invalid max_upload_size_mb: %d", c.Server.MaxUploadSizeMB)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "error": true}
	if !validLevels[c.Server.LoggingLevel] {
		return fmt.Errorf("invalid logging_level: %s (must be info, debug, or error)", c.Server.LoggingLevel)
	}

	switch c.Remote.Environment {
	case EnvironmentProduction, EnvironmentDevelopment:
	default:
		return fmt.Errorf("invalid environment: %s (must be production or development)", c.Remote.Environment)
	}

	if err := validateBaseURL("production_url", c.Remote.ProductionURL); err != nil {
		return err
	}
	if err := validateBaseURL("development_url", c.Remote.DevelopmentURL); err != nil {
		return err
	}

	if !strings.HasPrefix(c.Remote.HealthPath, "/") {
		return fmt.Errorf("health_path must start with '/', got: %q", c.Remote.HealthPath)
	}

	if c.Remote.ProbeTimeout <= 0 {
		return fmt.Errorf("invalid probe_timeout: %v", c.Remote.ProbeTimeout)
	}

	if c.Remote.WakeAttempts == 0 {
		return fmt.Errorf("invalid wake_attempts: %d", c.Remote.WakeAttempts)
	}

	if c.Demo.MockProfile != ProfileBackend && c.Demo.MockProfile != ProfileLegacy {
		return fmt.Errorf("invalid mock_profile: %s (must be %s or %s)", c.Demo.MockProfile, ProfileBackend, ProfileLegacy)
	}

	if c.Demo.MaxAnalyses <= 0 {
		return fmt.Errorf("invalid max_analyses: %d", c.Demo.MaxAnalyses)
	}

	if !strings.HasPrefix(c.Monitoring.HealthCheckPath, "/") {
		return fmt.Errorf("health_check_path must start with '/', got: %q", c.Monitoring.HealthCheckPath)
	}
	if strings.HasPrefix(c.Monitoring.HealthCheckPath, "/api/") {
		return fmt.Errorf("health_check_path must not be under /api/: %q", c.Monitoring.HealthCheckPath)
	}

	return nil
}
