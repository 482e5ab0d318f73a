// Package gateway is the HTTP server the browser app talks to. API calls
// go through the resolver; everything else is the built single-page app.
package gateway

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixeltruth/pixeltruth/internal/health"
	"github.com/pixeltruth/pixeltruth/internal/httputil"
)

type Config struct {
	// Origin is reported by the health endpoint.
	Origin            string
	MaxUploadBytes    int64
	HealthCheckPath   string
	PrometheusEnabled bool
	StaticDir         string
	MockProfile       string
	DemoMode          bool
}

type Gateway struct {
	config Config
	client httputil.Client
	status *health.Status
	logger *slog.Logger
}

// New creates a gateway forwarding API calls through client, which is
// normally the resolver.
func New(cfg Config, client httputil.Client, status *health.Status, logger *slog.Logger) *Gateway {
	if cfg.HealthCheckPath == "" {
		cfg.HealthCheckPath = "/gateway/health"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		config: cfg,
		client: client,
		status: status,
		logger: logger,
	}
}

// Router builds the HTTP handler.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(g.logRequests)
	r.Use(g.recoverPanics)

	r.Get(g.config.HealthCheckPath, g.handleHealth)
	if g.config.PrometheusEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.HandleFunc("/api", g.handleAPI)
	r.HandleFunc("/api/*", g.handleAPI)

	r.Get("/*", g.handleStatic)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteErrorNotFound(w, "Not Found")
	})
	return r
}
