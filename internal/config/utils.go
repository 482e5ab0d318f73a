package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// resolveEnvString resolves environment variable if value is in format "os.environ/VAR_NAME"
func resolveEnvString(value string) string {
	const prefix = "os.environ/"
	if strings.HasPrefix(value, prefix) {
		envVar := strings.TrimPrefix(value, prefix)
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
		slog.Warn("environment variable not set, returning empty string",
			"env_var", envVar,
			"pattern", value,
		)
		return ""
	}
	return value
}

// validateBaseURL validates that a URL is properly formed with http/https scheme
func validateBaseURL(field, baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("%s is required", field)
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme, got: %s", field, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s must have a host", field)
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// PrintConfig outputs the configuration in a structured, readable format to the logger
func PrintConfig(logger *slog.Logger, cfg *Config) {
	logger.Info("=== Configuration Loaded ===")

	logger.Info("server",
		"port", cfg.Server.Port,
		"request_timeout", cfg.Server.RequestTimeout.String(),
		"logging_level", cfg.Server.LoggingLevel,
		"max_upload_size_mb", cfg.Server.MaxUploadSizeMB,
		"static_dir", valueOrNone(cfg.Server.StaticDir),
	)

	logger.Info("remote",
		"environment", cfg.Remote.Environment,
		"origin", cfg.RemoteOrigin(),
		"health_path", cfg.Remote.HealthPath,
		"probe_timeout", cfg.Remote.ProbeTimeout.String(),
		"deployed_host", cfg.Remote.DeployedHost,
		"local_host", cfg.Remote.LocalHost,
	)

	if cfg.Demo.Enabled {
		logger.Info("demo (ENABLED)",
			"mock_profile", cfg.Demo.MockProfile,
			"delay_scale", cfg.Demo.DelayScale,
			"seed", seedToString(cfg.Demo.Seed),
		)
	} else {
		logger.Info("demo", "status", "DISABLED",
			"mock_profile", cfg.Demo.MockProfile,
			"seed", seedToString(cfg.Demo.Seed),
		)
	}

	logger.Info("monitoring",
		"prometheus_enabled", cfg.Monitoring.PrometheusEnabled,
		"health_check_path", cfg.Monitoring.HealthCheckPath,
	)

	logger.Info("=== Configuration Ready ===")
}

func valueOrNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

// seedToString shows "clock" for the zero seed, which means a time-based seed
func seedToString(seed uint64) string {
	if seed == 0 {
		return "clock"
	}
	return fmt.Sprintf("%d", seed)
}
