package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/pixeltruth/pixeltruth/internal/resolver"
	"github.com/pixeltruth/pixeltruth/internal/security"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rc *statusRecorder) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *statusRecorder) Write(p []byte) (int, error) {
	n, err := rc.ResponseWriter.Write(p)
	rc.bytes += n
	return n, err
}

func (rc *statusRecorder) Flush() {
	if flusher, ok := rc.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (g *Gateway) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, req)

		attrs := []any{
			"request_id", middleware.GetReqID(req.Context()),
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.statusCode,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		}
		if mock := rec.Header().Get(resolver.MockHeader); mock != "" {
			attrs = append(attrs, "mock", mock)
		}

		if rec.statusCode >= http.StatusInternalServerError {
			g.logger.Warn("Request completed with error", attrs...)
		} else {
			g.logger.Debug("Request completed", attrs...)
		}

		if g.logger.Enabled(req.Context(), slog.LevelDebug) {
			g.logger.Debug("Request headers",
				"request_id", middleware.GetReqID(req.Context()),
				"headers", security.MaskSensitiveHeaders(req.Header),
			)
		}
	})
}

// recoverPanics turns a handler panic into a logged 500 with the usual
// {"detail"} body. http.ErrAbortHandler is re-raised for net/http.
func (g *Gateway) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			g.logger.Error("Recovered from panic",
				"request_id", middleware.GetReqID(req.Context()),
				"method", req.Method,
				"path", req.URL.Path,
				"panic", fmt.Sprint(rvr),
				"stack", string(debug.Stack()),
			)
			WriteErrorInternal(w, "Internal Server Error")
		}()
		next.ServeHTTP(w, req)
	})
}
