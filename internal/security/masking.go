// Package security keeps session credentials out of logs.
package security

import (
	"net/http"
	"strings"
)

// sensitiveHeaders are masked by MaskSensitiveHeaders.
var sensitiveHeaders = map[string]bool{
	"Authorization":       true,
	"X-Api-Key":           true,
	"X-Auth-Token":        true,
	"Proxy-Authorization": true,
	"Cookie":              true,
	"Set-Cookie":          true,
}

// MaskSecret masks sensitive strings for logging.
// Shows first N characters followed by "..." to minimize secret exposure.
// Returns "***" for very short secrets (<= prefixLen).
//
// Examples:
//
//	MaskSecret("demo-token-1718000000", 4) -> "demo..."
//	MaskSecret("short", 8) -> "***"
//	MaskSecret("", 4) -> ""
func MaskSecret(secret string, prefixLen int) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= prefixLen {
		return "***"
	}
	return secret[:prefixLen] + "..."
}

// MaskToken masks session tokens. The prefix is long enough to tell
// "demo-token-" from "premium_token_" apart in logs.
func MaskToken(token string) string {
	return MaskSecret(token, 8)
}

// MaskSensitiveHeaders returns a copy of HTTP headers with credentials masked.
// Bearer tokens keep the scheme, cookies are replaced by a marker, and all
// other headers pass through unchanged.
func MaskSensitiveHeaders(headers http.Header) http.Header {
	masked := make(http.Header, len(headers))

	for key, values := range headers {
		if len(values) == 0 {
			continue
		}

		canonical := http.CanonicalHeaderKey(key)
		if !sensitiveHeaders[canonical] {
			for _, v := range values {
				masked.Add(key, v)
			}
			continue
		}

		value := values[0]
		switch canonical {
		case "Authorization", "Proxy-Authorization":
			if strings.HasPrefix(value, "Bearer ") {
				masked.Set(key, "Bearer "+MaskToken(strings.TrimPrefix(value, "Bearer ")))
			} else {
				masked.Set(key, MaskSecret(value, 4))
			}
		case "Cookie", "Set-Cookie":
			masked.Set(key, "***cookie***")
		default:
			masked.Set(key, MaskSecret(value, 4))
		}
	}

	return masked
}
