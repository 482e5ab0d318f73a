package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a text logger on stdout. level is "debug", "info" or
// "error"; anything else means info.
func New(level string) *slog.Logger {
	return newLogger(os.Stdout, level, false)
}

// NewJSON creates a JSON logger on stdout.
func NewJSON(level string) *slog.Logger {
	return newLogger(os.Stdout, level, true)
}

// NewStderr creates a text logger on stderr for ptctl, whose stdout
// carries command output.
func NewStderr(level string) *slog.Logger {
	return newLogger(os.Stderr, level, false)
}

func newLogger(w io.Writer, level string, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TruncateLongFields truncates long fields in JSON for logging purposes.
// Session tokens and free-text verdicts are cut short so that mock and
// proxied payloads stay readable in debug logs.
func TruncateLongFields(body string, maxFieldLength int) string {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return body // Return as-is if not valid JSON
	}

	truncateValue(data, maxFieldLength)

	truncated, err := json.Marshal(data)
	if err != nil {
		return body
	}

	return string(truncated)
}

// truncateValue recursively truncates long string values in a map or slice
func truncateValue(v interface{}, maxLength int) {
	switch val := v.(type) {
	case map[string]interface{}:
		for key, value := range val {
			switch key {
			case "token", "access_token":
				// Never log more than a prefix of a credential
				if str, ok := value.(string); ok && len(str) > 8 {
					val[key] = fmt.Sprintf("%s... [truncated %d chars]", str[:8], len(str)-8)
				}
			case "reasoning", "message":
				if str, ok := value.(string); ok && len(str) > 50 {
					val[key] = fmt.Sprintf("%s... [truncated %d chars]", str[:50], len(str)-50)
				}
			default:
				if str, ok := value.(string); ok && len(str) > maxLength {
					val[key] = str[:maxLength] + "... [truncated]"
				} else {
					truncateValue(value, maxLength)
				}
			}
		}
	case []interface{}:
		for i, item := range val {
			if str, ok := item.(string); ok && len(str) > maxLength {
				val[i] = str[:maxLength] + "... [truncated]"
				continue
			}
			truncateValue(item, maxLength)
		}
	}
}
