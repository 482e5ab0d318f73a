package gateway

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/pixeltruth/pixeltruth/internal/utils"
)

// Status is the body of the gateway health endpoint.
type Status struct {
	Status          string  `json:"status"`
	RemoteAvailable bool    `json:"remote_available"`
	RemoteOrigin    string  `json:"remote_origin"`
	MockProfile     string  `json:"mock_profile"`
	DemoMode        bool    `json:"demo_mode"`
	Probes          int64   `json:"probes"`
	LastChecked     *string `json:"last_checked"`
}

func (g *Gateway) handleHealth(w http.ResponseWriter, req *http.Request) {
	snap := g.status.Snapshot()
	body := Status{
		Status:          "healthy",
		RemoteAvailable: snap.Available,
		RemoteOrigin:    g.config.Origin,
		MockProfile:     g.config.MockProfile,
		DemoMode:        g.config.DemoMode,
		Probes:          snap.Probes,
	}
	if !snap.LastChecked.IsZero() {
		ts := utils.Timestamp(snap.LastChecked)
		body.LastChecked = &ts
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		g.logger.Error("Failed to encode health response",
			"endpoint", g.config.HealthCheckPath,
			"error", err.Error(),
		)
	}
}

// handleStatic serves the built app. Unknown paths get index.html so the
// client-side router can handle them.
func (g *Gateway) handleStatic(w http.ResponseWriter, req *http.Request) {
	if g.config.StaticDir == "" {
		WriteErrorNotFound(w, "Not Found")
		return
	}

	clean := path.Clean("/" + req.URL.Path)
	file := filepath.Join(g.config.StaticDir, filepath.FromSlash(clean))
	if g.serveFile(w, req, file) {
		return
	}
	if !g.serveFile(w, req, filepath.Join(g.config.StaticDir, "index.html")) {
		WriteErrorNotFound(w, "Not Found")
	}
}

// serveFile writes the regular file at name and reports whether it existed.
func (g *Gateway) serveFile(w http.ResponseWriter, req *http.Request, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(w, req, info.Name(), info.ModTime(), f)
	return true
}
