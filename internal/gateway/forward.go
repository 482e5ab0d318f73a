package gateway

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/pixeltruth/pixeltruth/internal/httputil"
	"github.com/pixeltruth/pixeltruth/internal/resolver"
)

// handleAPI forwards the request through the client with its relative
// request URI, so the resolver decides where it goes.
func (g *Gateway) handleAPI(w http.ResponseWriter, req *http.Request) {
	body, err := g.readBody(req)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteErrorTooLarge(w, fmt.Sprintf("File too large. Maximum size is %d MB", g.config.MaxUploadBytes/(1024*1024)))
			return
		}
		WriteErrorBadRequest(w, "Failed to read request body")
		return
	}

	out, err := http.NewRequestWithContext(req.Context(), req.Method, req.URL.RequestURI(), bytes.NewReader(body))
	if err != nil {
		WriteErrorBadRequest(w, "Invalid request")
		return
	}
	copyRequestHeaders(out, req)
	out.ContentLength = int64(len(body))

	resp, err := g.client.Do(out)
	if err != nil {
		g.logger.Error("API request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err.Error(),
		)
		WriteErrorBadGateway(w, "Backend unavailable")
		return
	}
	defer httputil.DrainAndClose(resp)

	copyResponseHeaders(w, resp.Header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		if isClientDisconnectError(err) {
			g.logger.Debug("Client disconnected during response write", "error", err)
		} else {
			g.logger.Error("Failed to write API response body", "error", err, "mock", resolver.IsMock(resp))
		}
	}
}

// readBody reads at most MaxUploadBytes. A larger body yields
// *http.MaxBytesError before anything is sent upstream.
func (g *Gateway) readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	limit := g.config.MaxUploadBytes
	if limit <= 0 {
		return io.ReadAll(req.Body)
	}
	if req.ContentLength > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}
	return io.ReadAll(http.MaxBytesReader(nil, req.Body, limit))
}

func isClientDisconnectError(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
