package main

import (
	"context"
	"path/filepath"

	"github.com/pixeltruth/pixeltruth/internal/models"
)

// demoAnalyze runs each file through the demo store in order and saves
// the user's new usage count to the session.
func (a *app) demoAnalyze(ctx context.Context, paths []string) []batchOutput {
	store := a.env.session.Demo()
	maxBytes := a.env.session.API().MaxUploadBytes()

	results := make([]batchOutput, 0, len(paths))
	for _, path := range paths {
		if _, err := readImage(path, maxBytes); err != nil {
			results = append(results, newBatchOutput(path, nil, err))
			continue
		}
		analysis, err := store.AnalyzeImage(ctx, filepath.Base(path))
		results = append(results, newBatchOutput(path, analysis, err))
	}

	if a.env.session.IsAuthenticated() {
		if user, err := store.CurrentUser(ctx); err == nil {
			if err := a.env.session.UpdateUser(map[string]any{"analysesUsed": user.AnalysesUsed}); err != nil {
				a.env.log.Warn("Failed to save demo usage", "error", err.Error())
			}
		}
	}
	return results
}

func (a *app) demoStats(ctx context.Context) (*models.UserStats, error) {
	user, err := a.env.session.Demo().CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	remaining := max(user.AnalysesLimit-user.AnalysesUsed, 0)
	return &models.UserStats{
		TotalAnalyses:       user.AnalysesUsed,
		MonthlyAnalysesUsed: user.AnalysesUsed,
		MonthlyLimit:        user.AnalysesLimit,
		RemainingAnalyses:   remaining,
	}, nil
}
