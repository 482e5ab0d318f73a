package mock

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pixeltruth/pixeltruth/internal/utils"
)

const (
	ProfileBackend = "backend"
	ProfileLegacy  = "legacy"
)

// UnmatchedRoute is the metric label for paths without a mock entry.
const UnmatchedRoute = "unmatched"

// Request carries what a payload builder may look at. Method is recorded
// for logging only: the table is keyed by path.
type Request struct {
	Method string
	Path   string
	Query  url.Values
}

type builder func(b *build) any

// build is the per-call context handed to a payload builder.
type build struct {
	src    Source
	now    time.Time
	req    Request
	params map[string]string
}

// Route is one entry of the mock table.
type Route struct {
	Pattern  string
	segments []string
	fn       builder
}

// Responder maps API paths to canned, partly randomized JSON payloads.
// Nothing is stored between calls.
type Responder struct {
	profile string
	src     Source
	now     func() time.Time
	exact   map[string]Route
	params  []Route
}

// New builds the mock table for profile.
func New(profile string, src Source) (*Responder, error) {
	var table map[string]builder
	switch profile {
	case ProfileBackend, "":
		profile = ProfileBackend
		table = backendRoutes()
	case ProfileLegacy:
		table = legacyRoutes()
	default:
		return nil, fmt.Errorf("unknown mock profile: %s", profile)
	}

	if src == nil {
		src = NewSource(0)
	}

	r := &Responder{
		profile: profile,
		src:     src,
		now:     utils.NowUTC,
		exact:   make(map[string]Route),
	}
	for pattern, fn := range table {
		route := Route{Pattern: pattern, segments: strings.Split(pattern, "/"), fn: fn}
		if strings.Contains(pattern, "{") {
			r.params = append(r.params, route)
		} else {
			r.exact[pattern] = route
		}
	}
	return r, nil
}

func (r *Responder) Profile() string {
	return r.profile
}

// Lookup finds the route for path. Literal routes win over parameterized
// ones, so /api/analysis/history never matches /api/analysis/{id}.
func (r *Responder) Lookup(path string) (Route, bool) {
	route, _, ok := r.lookup(path)
	return route, ok
}

func (r *Responder) lookup(path string) (Route, map[string]string, bool) {
	path = normalizePath(path)
	if route, ok := r.exact[path]; ok {
		return route, nil, true
	}

	segments := strings.Split(path, "/")
	for _, route := range r.params {
		if params, ok := matchSegments(route.segments, segments); ok {
			return route, params, true
		}
	}
	return Route{}, nil, false
}

// Route returns the table pattern for path, for use as a metric label.
func (r *Responder) Route(path string) string {
	if route, ok := r.Lookup(path); ok {
		return route.Pattern
	}
	return UnmatchedRoute
}

// Respond builds the payload for req. The second return is false when the
// path has no entry.
func (r *Responder) Respond(req Request) ([]byte, bool) {
	route, params, ok := r.lookup(req.Path)
	if !ok {
		return nil, false
	}

	payload := route.fn(&build{
		src:    r.src,
		now:    r.now(),
		req:    req,
		params: params,
	})

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, false
	}
	return body, true
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if path[i] == "" {
				return nil, false
			}
			params[strings.Trim(seg, "{}")] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}
