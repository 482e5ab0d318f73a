package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pixeltruth/pixeltruth/internal/httputil"
)

// Validation errors, raised before any request is sent.
var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrEmptyCredentials    = errors.New("email and password are required")
	ErrEmptyAnalysisID     = errors.New("analysis id is required")
)

// ErrMockedResponse means the auth check was answered by the offline mock
// table, so the stored token was never verified.
var ErrMockedResponse = errors.New("auth check answered by mock table")

// HTTPError is a non-2xx answer from the backend. Detail comes from the
// FastAPI {"detail": ...} body when present.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Detail)
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}

func newHTTPError(status int, body []byte) *HTTPError {
	return &HTTPError{StatusCode: status, Detail: parseDetail(status, body)}
}

// parseDetail understands {"detail": "..."}, FastAPI validation lists
// {"detail": [{"msg": "..."}]} and {"error": "..."}.
func parseDetail(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		if preview := strings.TrimSpace(httputil.SafeStringPreview(body, 200)); preview != "" {
			return preview
		}
		return http.StatusText(status)
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		return string(payload.Detail)
	}

	if payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(status)
}
