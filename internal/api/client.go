// Package api is a typed client for the Pixel Truth HTTP surface. It sends
// relative /api paths; the resolver underneath supplies the origin.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/pixeltruth/pixeltruth/internal/httputil"
	"github.com/pixeltruth/pixeltruth/internal/models"
	"github.com/pixeltruth/pixeltruth/internal/resolver"
)

const (
	defaultMaxUploadMB   = 50
	maxResponseBodyBytes = 10 * 1024 * 1024
)

type Config struct {
	MaxUploadSizeMB int
	Logger          *slog.Logger
}

// Client calls the backend through an injected httputil.Client. The
// Authorization header set by SetAuthToken applies to every later call.
type Client struct {
	http           *httputil.HeaderClient
	maxUploadBytes int64
	logger         *slog.Logger
}

func New(next httputil.Client, cfg Config) *Client {
	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = defaultMaxUploadMB
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		http:           httputil.NewHeaderClient(next),
		maxUploadBytes: int64(cfg.MaxUploadSizeMB) * 1024 * 1024,
		logger:         cfg.Logger,
	}
}

// MaxUploadBytes returns the upload size limit enforced before sending.
func (c *Client) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

func (c *Client) SetAuthToken(token string) {
	c.http.Set("Authorization", "Bearer "+token)
}

func (c *Client) ClearAuthToken() {
	c.http.Del("Authorization")
}

func (c *Client) HasAuthToken() bool {
	return c.http.Get("Authorization") != ""
}

func (c *Client) Health(ctx context.Context) (*httputil.HealthResponse, error) {
	var out httputil.HealthResponse
	if err := c.getJSON(ctx, "/api/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TestConnection(ctx context.Context) (*models.ConnectionTest, error) {
	var out models.ConnectionTest
	if err := c.getJSON(ctx, "/api/auth/test", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	var out models.AuthResponse
	err := c.postJSON(ctx, "/api/auth/login", models.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*models.AuthResponse, error) {
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	var out models.AuthResponse
	req := models.RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.postJSON(ctx, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/api/auth/logout", struct{}{}, nil)
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	if !c.HasAuthToken() {
		return nil, ErrNotAuthenticated
	}

	// A canned record says nothing about the stored token.
	var raw json.RawMessage
	mocked, err := c.send(ctx, http.MethodGet, "/api/auth/me", nil, "", &raw)
	if err != nil {
		return nil, err
	}
	if mocked {
		return nil, ErrMockedResponse
	}

	// Some backend versions wrap the record as {"user": {...}}.
	var envelope struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.User != nil {
		return envelope.User, nil
	}

	var out models.User
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode /api/auth/me response: %w", err)
	}
	return &out, nil
}

// Upload stages an image under the multipart field "image".
func (c *Client) Upload(ctx context.Context, name string, content []byte) (*models.UploadResponse, error) {
	if err := ValidateImage(name, int64(len(content)), c.maxUploadBytes); err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, name))
	header.Set("Content-Type", MimeType(name))
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	var out models.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/upload", body, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze runs detection on a previously uploaded image.
func (c *Client) Analyze(ctx context.Context, upload *models.UploadResponse) (*models.AnalysisResult, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("filename", upload.Filename); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := mw.WriteField("original_name", upload.OriginalName); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	var out models.AnalysisResult
	if err := c.do(ctx, http.MethodPost, "/api/analysis/analyze", body, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadAndAnalyze is the two-step flow the upload page performs.
func (c *Client) UploadAndAnalyze(ctx context.Context, name string, content []byte) (*models.AnalysisResult, error) {
	upload, err := c.Upload(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	result, err := c.Analyze(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", name, err)
	}
	return result, nil
}

func (c *Client) History(ctx context.Context, limit int) (*models.HistoryResponse, error) {
	path := "/api/analysis/history"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var out models.HistoryResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Analysis(ctx context.Context, id string) (*models.AnalysisDetail, error) {
	if id == "" {
		return nil, ErrEmptyAnalysisID
	}

	var out models.AnalysisDetail
	if err := c.getJSON(ctx, "/api/analysis/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserStats(ctx context.Context) (*models.UserStats, error) {
	if !c.HasAuthToken() {
		return nil, ErrNotAuthenticated
	}

	var out models.UserStats
	if err := c.getJSON(ctx, "/api/user/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// do sends the request and decodes a 2xx JSON body into out. Non-2xx
// answers become *HTTPError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	_, err := c.send(ctx, method, path, body, contentType, out)
	return err
}

// send is do that also reports whether the resolver answered from its
// mock table instead of the network.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer httputil.DrainAndClose(resp)
	mocked := resolver.IsMock(resp)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return mocked, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := newHTTPError(resp.StatusCode, data)
		c.logger.Debug("API request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"detail", httpErr.Detail,
		)
		return mocked, httpErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return mocked, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return mocked, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return mocked, nil
}
