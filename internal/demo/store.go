// Package demo is the in-process stand-in for the remote backend used
// when the session runs in demo mode.
package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pixeltruth/pixeltruth/internal/mock"
	"github.com/pixeltruth/pixeltruth/internal/models"
	"github.com/pixeltruth/pixeltruth/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotFound           = errors.New("analysis not found")
)

// Simulated backend latency per operation, before scaling.
const (
	LoginDelay    = 500 * time.Millisecond
	RegisterDelay = 500 * time.Millisecond
	MeDelay       = 200 * time.Millisecond
	AnalyzeDelay  = 2 * time.Second
	HistoryDelay  = 300 * time.Millisecond
	DetailDelay   = 200 * time.Millisecond
)

const defaultMaxAnalyses = 1000

type Config struct {
	// DelayScale multiplies every simulated delay; 0 disables them.
	DelayScale float64
	// MaxAnalyses bounds how many analyses are kept; the oldest go first.
	MaxAnalyses int
	Source      mock.Source
}

// Store holds demo users and analyses in memory.
type Store struct {
	mu        sync.Mutex
	users     []models.DemoUser
	analyses  *lru.Cache[string, models.DemoAnalysis]
	currentID string
	src       mock.Source
	scale     float64
	now       func() time.Time
}

// NewStore creates a store seeded with the demo account.
func NewStore(cfg Config) (*Store, error) {
	if cfg.MaxAnalyses <= 0 {
		cfg.MaxAnalyses = defaultMaxAnalyses
	}
	if cfg.DelayScale < 0 {
		cfg.DelayScale = 0
	}
	if cfg.Source == nil {
		cfg.Source = mock.NewSource(0)
	}

	analyses, err := lru.New[string, models.DemoAnalysis](cfg.MaxAnalyses)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyses cache: %w", err)
	}

	s := &Store{
		analyses: analyses,
		src:      cfg.Source,
		scale:    cfg.DelayScale,
		now:      utils.NowUTC,
	}
	s.users = []models.DemoUser{mock.SeedDemoUser(s.now())}
	return s, nil
}

// wait sleeps for the scaled delay or until ctx is done.
func (s *Store) wait(ctx context.Context, d time.Duration) error {
	d = time.Duration(float64(d) * s.scale)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Login accepts only the fixed demo credentials.
func (s *Store) Login(ctx context.Context, email, password string) (models.DemoAuthResponse, error) {
	if err := s.wait(ctx, LoginDelay); err != nil {
		return models.DemoAuthResponse{}, err
	}

	if email != mock.DemoEmail || password != mock.DemoPassword {
		return models.DemoAuthResponse{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.users[0]
	s.currentID = user.ID
	return models.DemoAuthResponse{
		Success: true,
		Token:   mock.DemoToken(s.now()),
		User:    user,
	}, nil
}

// Register always succeeds and signs the new user in.
func (s *Store) Register(ctx context.Context, username, email, _ string) (models.DemoAuthResponse, error) {
	if err := s.wait(ctx, RegisterDelay); err != nil {
		return models.DemoAuthResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user := models.DemoUser{
		ID:            fmt.Sprintf("demo-user-%d", now.UnixNano()),
		Username:      username,
		Email:         email,
		Plan:          models.PlanFree,
		AnalysesUsed:  0,
		AnalysesLimit: 10,
		CreatedAt:     utils.Timestamp(now),
	}
	s.users = append(s.users, user)
	s.currentID = user.ID

	return models.DemoAuthResponse{
		Success: true,
		Token:   mock.DemoToken(now),
		User:    user,
	}, nil
}

// Restore signs in a user recovered from persisted session state. Unknown
// users are added to the store.
func (s *Store) Restore(user models.DemoUser) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(user.ID); i >= 0 {
		s.users[i] = user
	} else {
		s.users = append(s.users, user)
	}
	s.currentID = user.ID
}

// Logout clears the signed-in user.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentID = ""
}

func (s *Store) CurrentUser(ctx context.Context) (models.DemoUser, error) {
	if err := s.wait(ctx, MeDelay); err != nil {
		return models.DemoUser{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.currentID)
	if i < 0 {
		return models.DemoUser{}, ErrNotAuthenticated
	}
	return s.users[i], nil
}

// AnalyzeImage produces a randomized analysis for filename and charges it
// to the current user, if any.
func (s *Store) AnalyzeImage(ctx context.Context, filename string) (models.DemoAnalysis, error) {
	if err := s.wait(ctx, AnalyzeDelay); err != nil {
		return models.DemoAnalysis{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	analysis := mock.NewDemoAnalysis(s.src, s.now(), s.currentID, filename)
	s.analyses.Add(analysis.ID, analysis)

	if i := s.indexOf(s.currentID); i >= 0 {
		s.users[i].AnalysesUsed++
	}
	return analysis, nil
}

// History returns the current user's analyses, oldest first.
func (s *Store) History(ctx context.Context) ([]models.DemoAnalysis, error) {
	if err := s.wait(ctx, HistoryDelay); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DemoAnalysis, 0)
	for _, id := range s.analyses.Keys() {
		a, ok := s.analyses.Peek(id)
		if ok && a.UserID == s.currentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) Analysis(ctx context.Context, id string) (models.DemoAnalysis, error) {
	if err := s.wait(ctx, DetailDelay); err != nil {
		return models.DemoAnalysis{}, err
	}

	a, ok := s.analyses.Get(id)
	if !ok {
		return models.DemoAnalysis{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a, nil
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
