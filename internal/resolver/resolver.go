package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pixeltruth/pixeltruth/internal/health"
	"github.com/pixeltruth/pixeltruth/internal/httputil"
	"github.com/pixeltruth/pixeltruth/internal/logger"
	"github.com/pixeltruth/pixeltruth/internal/mock"
	"github.com/pixeltruth/pixeltruth/internal/monitoring"
)

// MockHeader is set on synthetic responses; its value is the reason.
const MockHeader = "X-Pixel-Truth-Mock"

const (
	ReasonRemoteUnavailable = "remote_unavailable"
	ReasonNetworkError      = "network_error"
)

// Resolver is an httputil.Client decorator that points API calls at the
// remote origin and answers from the mock table when the remote is down.
// HTTP error statuses from the remote are returned untouched.
type Resolver struct {
	next      httputil.Client
	rewriter  *Rewriter
	responder *mock.Responder
	status    *health.Status
	logger    *slog.Logger
	metrics   *monitoring.Metrics
}

// New creates a Resolver. responder may be nil, in which case no request
// is ever mocked.
func New(
	next httputil.Client,
	rewriter *Rewriter,
	responder *mock.Responder,
	status *health.Status,
	logger *slog.Logger,
	metrics *monitoring.Metrics,
) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		next:      next,
		rewriter:  rewriter,
		responder: responder,
		status:    status,
		logger:    logger,
		metrics:   metrics,
	}
}

func (r *Resolver) Origin() string {
	return r.rewriter.Origin()
}

func (r *Resolver) Do(req *http.Request) (*http.Response, error) {
	original := req.URL.String()
	target, rule := r.rewriter.Rewrite(original)

	out := req
	if rule != RuleNone {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rewritten url: %w", err)
		}
		out = req.Clone(req.Context())
		out.URL = u
		out.Host = ""
		out.RequestURI = ""

		r.metrics.RecordRewrite(string(rule))
		r.logger.Info("Rewrote API URL",
			"method", req.Method,
			"from", original,
			"to", target,
			"rule", rule,
		)
	}

	mockReq, hasMock := r.mockRequest(out)
	route := mock.UnmatchedRoute
	if hasMock {
		route = r.responder.Route(mockReq.Path)
	}

	if hasMock && !r.status.Available() {
		return r.serveMock(out, mockReq, route, ReasonRemoteUnavailable)
	}

	start := time.Now()
	resp, err := r.next.Do(out)
	if err != nil {
		r.metrics.RecordRemoteError(route)

		if hasMock && !callerGaveUp(req.Context(), err) {
			r.logger.Warn("Remote request failed, falling back to mock",
				"method", out.Method,
				"url", target,
				"error", err.Error(),
			)
			return r.serveMock(out, mockReq, route, ReasonNetworkError)
		}
		return nil, fmt.Errorf("remote request %s %s failed: %w", out.Method, target, err)
	}

	r.metrics.RecordRequest(route, resp.StatusCode, time.Since(start))
	if resp.StatusCode >= http.StatusBadRequest {
		r.logger.Debug("Remote returned error status",
			"method", out.Method,
			"url", target,
			"status", resp.StatusCode,
		)
	}
	return resp, nil
}

func (r *Resolver) mockRequest(req *http.Request) (mock.Request, bool) {
	if r.responder == nil {
		return mock.Request{}, false
	}
	path, ok := APIPath(req.URL.String())
	if !ok {
		return mock.Request{}, false
	}
	if _, ok := r.responder.Lookup(path); !ok {
		return mock.Request{}, false
	}
	return mock.Request{
		Method: req.Method,
		Path:   path,
		Query:  req.URL.Query(),
	}, true
}

func (r *Resolver) serveMock(req *http.Request, mreq mock.Request, route, reason string) (*http.Response, error) {
	body, ok := r.responder.Respond(mreq)
	if !ok {
		return nil, fmt.Errorf("no mock response for %s", mreq.Path)
	}

	r.metrics.RecordMockResponse(route, reason)
	r.metrics.RecordRequest(route, http.StatusOK, 0)
	r.logger.Info("Serving mock response",
		"method", mreq.Method,
		"path", mreq.Path,
		"reason", reason,
		"profile", r.responder.Profile(),
	)
	if r.logger.Enabled(req.Context(), slog.LevelDebug) {
		r.logger.Debug("Mock response body",
			"path", mreq.Path,
			"body", logger.TruncateLongFields(string(body), 200),
		)
	}

	return NewMockResponse(req, body, reason), nil
}

// NewMockResponse wraps body in a 200 JSON response tagged with reason.
func NewMockResponse(req *http.Request, body []byte, reason string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("Content-Length", strconv.Itoa(len(body)))
	header.Set(MockHeader, reason)

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// IsMock reports whether resp was produced by the mock table.
func IsMock(resp *http.Response) bool {
	return resp != nil && resp.Header.Get(MockHeader) != ""
}

// callerGaveUp separates "the caller cancelled" from "the network failed".
// Only the latter falls back to a mock.
func callerGaveUp(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
