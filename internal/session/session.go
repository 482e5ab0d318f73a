// Package session tracks who is signed in and whether the app talks to
// the remote backend or to the in-process demo store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/pixeltruth/pixeltruth/internal/api"
	"github.com/pixeltruth/pixeltruth/internal/demo"
	"github.com/pixeltruth/pixeltruth/internal/models"
	"github.com/pixeltruth/pixeltruth/internal/monitoring"
	"github.com/pixeltruth/pixeltruth/internal/security"
)

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeDemo   Mode = "demo"
)

// User is the signed-in user record as the backend returned it. Remote
// and demo users have different fields, so it is kept as a JSON object.
type User map[string]any

// String returns the string field key, or "".
func (u User) String(key string) string {
	s, _ := u[key].(string)
	return s
}

func (u User) Plan() string {
	return u.String("plan")
}

type Config struct {
	// Demo starts the session in demo mode.
	Demo    bool
	Logger  *slog.Logger
	Metrics *monitoring.Metrics
}

// Context is the session state shared by the commands of one process.
// The only mode change it ever makes is remote to demo.
type Context struct {
	mu    sync.RWMutex
	mode  Mode
	user  User
	token string

	api     *api.Client
	demo    *demo.Store
	store   Store
	logger  *slog.Logger
	metrics *monitoring.Metrics
}

func New(cfg Config, client *api.Client, demoStore *demo.Store, store Store) *Context {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if store == nil {
		store = NewMemoryStore()
	}

	mode := ModeRemote
	if cfg.Demo {
		mode = ModeDemo
	}

	return &Context{
		mode:    mode,
		api:     client,
		demo:    demoStore,
		store:   store,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Init restores persisted state. In remote mode a stored token is
// checked against /api/auth/me; any failure switches the session to demo
// mode and clears the local state.
func (c *Context) Init(ctx context.Context) error {
	if c.IsDemo() {
		return c.restoreDemoUser()
	}

	token, ok := c.store.Get(KeyToken)
	if !ok || token == "" {
		return nil
	}

	c.api.SetAuthToken(token)
	me, err := c.api.Me(ctx)
	if err != nil {
		c.logger.Warn("Auth check failed, switching to demo mode",
			"token", security.MaskToken(token),
			"error", err.Error(),
		)
		return c.fallbackToDemo()
	}

	user, err := toUser(me)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.token = token
	c.user = user
	c.mu.Unlock()

	c.logger.Debug("Session restored", "user_id", user.String("id"), "plan", user.Plan())
	return nil
}

func (c *Context) restoreDemoUser() error {
	raw, ok := c.store.Get(KeyDemoUser)
	if !ok || raw == "" {
		return nil
	}

	var du models.DemoUser
	if err := json.Unmarshal([]byte(raw), &du); err != nil {
		c.logger.Warn("Discarding unreadable demo user", "error", err.Error())
		return c.store.Delete(KeyDemoUser)
	}

	user, err := toUser(du)
	if err != nil {
		return err
	}

	c.demo.Restore(du)
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	return nil
}

// fallbackToDemo switches to demo mode and drops the local session. It
// does not call the remote logout endpoint.
func (c *Context) fallbackToDemo() error {
	c.mu.Lock()
	alreadyDemo := c.mode == ModeDemo
	c.mode = ModeDemo
	c.mu.Unlock()

	if !alreadyDemo {
		c.metrics.RecordDemoFallback()
	}
	return c.clearLocal()
}

func (c *Context) Login(ctx context.Context, email, password string) error {
	if c.IsDemo() {
		resp, err := c.demo.Login(ctx, email, password)
		if err != nil {
			return err
		}
		return c.setDemoUser(resp.User)
	}

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return c.setRemoteSession(resp)
}

func (c *Context) Register(ctx context.Context, username, email, password string) error {
	if c.IsDemo() {
		resp, err := c.demo.Register(ctx, username, email, password)
		if err != nil {
			return err
		}
		return c.setDemoUser(resp.User)
	}

	resp, err := c.api.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	return c.setRemoteSession(resp)
}

func (c *Context) setDemoUser(du models.DemoUser) error {
	user, err := toUser(du)
	if err != nil {
		return err
	}
	if err := c.persistDemoUser(user); err != nil {
		return err
	}

	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	return nil
}

func (c *Context) setRemoteSession(resp *models.AuthResponse) error {
	user, err := toUser(resp.User)
	if err != nil {
		return err
	}
	if err := c.store.Set(KeyToken, resp.Token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	c.api.SetAuthToken(resp.Token)

	c.mu.Lock()
	c.token = resp.Token
	c.user = user
	c.mu.Unlock()

	c.logger.Info("Signed in", "user_id", user.String("id"), "plan", user.Plan(), "token", security.MaskToken(resp.Token))
	return nil
}

// Logout ends the session. In remote mode the backend is told first;
// its errors are logged, never returned. Local state is always cleared.
func (c *Context) Logout(ctx context.Context) error {
	if !c.IsDemo() && c.api.HasAuthToken() {
		if err := c.api.Logout(ctx); err != nil {
			c.logger.Warn("Logout request failed", "error", err.Error())
		}
	}
	return c.clearLocal()
}

func (c *Context) clearLocal() error {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()

	c.api.ClearAuthToken()
	if c.demo != nil {
		c.demo.Logout()
	}
	if err := c.store.Delete(KeyToken, KeyDemoUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UpdateUser shallow-merges patch into the user record. In demo mode the
// merged record is persisted.
func (c *Context) UpdateUser(patch map[string]any) error {
	c.mu.Lock()
	merged := make(User, len(c.user)+len(patch))
	maps.Copy(merged, c.user)
	maps.Copy(merged, patch)
	c.user = merged
	demoMode := c.mode == ModeDemo
	c.mu.Unlock()

	if demoMode {
		return c.persistDemoUser(merged)
	}
	return nil
}

func (c *Context) persistDemoUser(user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode demo user: %w", err)
	}
	if err := c.store.Set(KeyDemoUser, string(data)); err != nil {
		return fmt.Errorf("failed to persist demo user: %w", err)
	}
	return nil
}

func (c *Context) TestConnection(ctx context.Context) (*models.ConnectionTest, error) {
	return c.api.TestConnection(ctx)
}

// User returns a copy of the current user record, or nil.
func (c *Context) User() User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	return maps.Clone(c.user)
}

func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Context) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

func (c *Context) IsDemo() bool {
	return c.Mode() == ModeDemo
}

func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

// Demo returns the demo store backing demo mode.
func (c *Context) Demo() *demo.Store {
	return c.demo
}

// API returns the typed client used in remote mode.
func (c *Context) API() *api.Client {
	return c.api
}

func toUser(v any) (User, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return user, nil
}
