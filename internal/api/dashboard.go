package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/pixeltruth/pixeltruth/internal/models"
	"github.com/pixeltruth/pixeltruth/internal/worker"
)

// Dashboard is what the dashboard page shows: counters plus recent scans.
type Dashboard struct {
	Stats  *models.UserStats
	Recent *models.HistoryResponse
}

// Dashboard fetches user stats and the most recent analyses concurrently.
func (c *Client) Dashboard(ctx context.Context, recent int) (*Dashboard, error) {
	if !c.HasAuthToken() {
		return nil, ErrNotAuthenticated
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := c.UserStats(gctx)
		if err != nil {
			return fmt.Errorf("user stats: %w", err)
		}
		d.Stats = stats
		return nil
	})
	g.Go(func() error {
		history, err := c.History(gctx, recent)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		d.Recent = history
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// BatchResult is the outcome of one file in BatchAnalyze.
type BatchResult struct {
	Path   string
	Result *models.AnalysisResult
	Err    error
}

// BatchAnalyze uploads and analyzes each file with at most workers calls
// in flight. Invalid files fail locally without a request.
func (c *Client) BatchAnalyze(ctx context.Context, paths []string, workers int) []BatchResult {
	tasks := make([]worker.Task[*models.AnalysisResult], len(paths))
	for i, path := range paths {
		tasks[i] = func(ctx context.Context) (*models.AnalysisResult, error) {
			return c.analyzeFile(ctx, path)
		}
	}

	outcomes := worker.Run(ctx, workers, tasks, c.logger)

	results := make([]BatchResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = BatchResult{Path: paths[o.Index], Result: o.Value, Err: o.Err}
	}
	return results
}

func (c *Client) analyzeFile(ctx context.Context, path string) (*models.AnalysisResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	if err := ValidateImage(name, info.Size(), c.maxUploadBytes); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.UploadAndAnalyze(ctx, name, content)
}
