package gateway

import (
	"net/http"
	"strings"
)

// hopByHopHeaders are headers that should not be proxied.
// These are hop-by-hop headers as defined in RFC 7230 Section 6.1.
var hopByHopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// isHopByHopHeader reports whether key must not be forwarded. Headers
// named in the Connection header count as hop-by-hop too.
func isHopByHopHeader(key string, connection []string) bool {
	key = http.CanonicalHeaderKey(key)
	if hopByHopHeaders[key] {
		return true
	}
	for _, value := range connection {
		for _, name := range strings.Split(value, ",") {
			if http.CanonicalHeaderKey(strings.TrimSpace(name)) == key {
				return true
			}
		}
	}
	return false
}

// copyRequestHeaders copies end-to-end headers from src to dst.
func copyRequestHeaders(dst, src *http.Request) {
	connection := src.Header.Values("Connection")
	for key, values := range src.Header {
		if isHopByHopHeader(key, connection) {
			continue
		}
		for _, value := range values {
			dst.Header.Add(key, value)
		}
	}
}

// copyResponseHeaders copies end-to-end response headers to w. The body is
// streamed as received, so Content-Length is dropped and recomputed.
func copyResponseHeaders(w http.ResponseWriter, src http.Header) {
	connection := src.Values("Connection")
	for key, values := range src {
		if isHopByHopHeader(key, connection) || key == "Content-Length" {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
}
