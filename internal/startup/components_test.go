package startup

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixeltruth/pixeltruth/internal/config"
	"github.com/pixeltruth/pixeltruth/internal/resolver"
	"github.com/pixeltruth/pixeltruth/internal/testhelpers"
)

func TestBuild_ProbesAndResolvesAgainstOrigin(t *testing.T) {
	srv := testhelpers.NewCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			testhelpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		case "/api/auth/me":
			testhelpers.WriteJSON(w, http.StatusOK, map[string]string{"email": "real@example.com"})
		default:
			http.NotFound(w, r)
		}
	})

	cfg := testhelpers.NewTestConfig(srv.URL)
	c, err := Build(cfg, srv.Client(), testhelpers.NewTestLogger(), nil)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, c.Origin)
	assert.Equal(t, config.ProfileBackend, c.Responder.Profile())
	assert.False(t, c.Status.Available())

	assert.True(t, <-c.Prober.Start(context.Background()))
	assert.True(t, c.Status.Available())

	req, err := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	require.NoError(t, err)
	resp, err := c.Resolver.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, resolver.IsMock(resp))
	assert.Equal(t, int64(2), srv.Calls())
}

func TestBuild_UsesDevelopmentOrigin(t *testing.T) {
	cfg := config.Default()
	cfg.Remote.Environment = config.EnvironmentDevelopment

	c, err := Build(cfg, nil, testhelpers.NewTestLogger(), nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", c.Origin)
	assert.Equal(t, "http://localhost:5000/api/health", c.Prober.URL())
	assert.Len(t, c.Rewriter.Rules(), 3)
}

func TestBuild_InvalidMockProfile(t *testing.T) {
	cfg := config.Default()
	cfg.Demo.MockProfile = "nope"

	_, err := Build(cfg, nil, testhelpers.NewTestLogger(), nil)
	assert.Error(t, err)
}
