package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"info", "debug", "error", "unknown"} {
		assert.NotNil(t, New(level), level)
	}
	assert.NotNil(t, NewJSON("info"))
	assert.NotNil(t, NewStderr("debug"))
}

func TestNew_LevelFiltering(t *testing.T) {
	log := New("error")
	assert.False(t, log.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, log.Enabled(t.Context(), slog.LevelError))
}

func TestTruncateLongFields_InvalidJSON(t *testing.T) {
	body := "not valid json"
	assert.Equal(t, body, TruncateLongFields(body, 100))
}

func TestTruncateLongFields_Token(t *testing.T) {
	input := `{"token":"premium_token_1718000000","user":{"plan":"premium"}}`
	result := TruncateLongFields(input, 100)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result), &data))

	token := data["token"].(string)
	assert.True(t, strings.HasPrefix(token, "premium_"))
	assert.Contains(t, token, "truncated")
	assert.NotContains(t, token, "1718000000")
	assert.Equal(t, "premium", data["user"].(map[string]interface{})["plan"])
}

func TestTruncateLongFields_Reasoning(t *testing.T) {
	input := `{"final_verdict":{"reasoning":"` + strings.Repeat("r", 300) + `","overall_confidence":0.89}}`
	result := TruncateLongFields(input, 1000)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result), &data))

	verdict := data["final_verdict"].(map[string]interface{})
	assert.Contains(t, verdict["reasoning"].(string), "[truncated 250 chars]")
	assert.Equal(t, 0.89, verdict["overall_confidence"])
}

func TestTruncateLongFields_ShortFieldsUntouched(t *testing.T) {
	input := `{"prediction":"authentic","message":"short"}`
	result := TruncateLongFields(input, 100)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result), &data))
	assert.Equal(t, "authentic", data["prediction"])
	assert.Equal(t, "short", data["message"])
}

func TestTruncateLongFields_StringArray(t *testing.T) {
	input := `{"osint_analysis":{"authenticity_indicators":["` + strings.Repeat("a", 80) + `","short"]}}`
	result := TruncateLongFields(input, 20)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result), &data))

	indicators := data["osint_analysis"].(map[string]interface{})["authenticity_indicators"].([]interface{})
	require.Len(t, indicators, 2)
	assert.Contains(t, indicators[0].(string), "truncated")
	assert.Equal(t, "short", indicators[1])
}

func TestTruncateLongFields_JSONArray(t *testing.T) {
	// Top-level arrays do not unmarshal into a map and come back unchanged
	input := `[{"field":"` + strings.Repeat("x", 100) + `"}]`
	assert.Equal(t, input, TruncateLongFields(input, 50))
}

func TestTruncateLongFields_SpecificTruncationLength(t *testing.T) {
	input := `{"field":"` + strings.Repeat("x", 200) + `"}`

	result1 := TruncateLongFields(input, 50)
	result2 := TruncateLongFields(input, 100)

	var data1, data2 map[string]interface{}
	_ = json.Unmarshal([]byte(result1), &data1)
	_ = json.Unmarshal([]byte(result2), &data2)

	field1 := data1["field"].(string)
	field2 := data2["field"].(string)

	assert.True(t, strings.Contains(field1, "truncated"))
	assert.True(t, strings.Contains(field2, "truncated"))
	assert.Less(t, len(field1), len(field2))
}

func TestParseLevel_CaseInsensitive(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"lowercase debug", "debug", slog.LevelDebug},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"mixed cAsE", "DeBuG", slog.LevelDebug},
		{"lowercase info", "info", slog.LevelInfo},
		{"uppercase INFO", "INFO", slog.LevelInfo},
		{"lowercase error", "error", slog.LevelError},
		{"uppercase ERROR", "ERROR", slog.LevelError},
		{"unknown", "unknown", slog.LevelInfo},
		{"empty", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := parseLevel(tt.input)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "info", true)

	log.Info("Serving mock response", "path", "/api/health")
	log.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Serving mock response", entry["msg"])
	assert.Equal(t, "/api/health", entry["path"])
	assert.NotContains(t, buf.String(), "hidden")
}
