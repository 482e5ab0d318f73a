package httputil

import (
	"net/http"
	"sync"
)

// HeaderClient attaches default headers to every request that does not
// set them itself. It is the Go counterpart of a shared client's
// "common headers" and carries the session Authorization header.
type HeaderClient struct {
	next     Client
	mu       sync.RWMutex
	defaults http.Header
}

func NewHeaderClient(next Client) *HeaderClient {
	return &HeaderClient{
		next:     next,
		defaults: make(http.Header),
	}
}

// Set replaces the default value for key.
func (c *HeaderClient) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults.Set(key, value)
}

// Del removes the default for key.
func (c *HeaderClient) Del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults.Del(key)
}

// Get returns the current default for key, or "".
func (c *HeaderClient) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults.Get(key)
}

func (c *HeaderClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.RLock()
	if len(c.defaults) == 0 {
		c.mu.RUnlock()
		return c.next.Do(req)
	}

	out := req.Clone(req.Context())
	for key, values := range c.defaults {
		if out.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			out.Header.Add(key, v)
		}
	}
	c.mu.RUnlock()

	return c.next.Do(out)
}
