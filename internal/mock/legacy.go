package mock

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pixeltruth/pixeltruth/internal/httputil"
	"github.com/pixeltruth/pixeltruth/internal/models"
	"github.com/pixeltruth/pixeltruth/internal/utils"
)

// Demo account shared by the legacy profile and the demo store.
const (
	DemoEmail    = "demo@pixeltruth.com"
	DemoPassword = "demo123"
)

// legacyRoutes serves the older camelCase shapes.
func legacyRoutes() map[string]builder {
	return map[string]builder{
		"/api/health":           legacyHealth,
		"/api/auth/login":       legacyAuth,
		"/api/auth/register":    legacyAuth,
		"/api/auth/me":          legacyMe,
		"/api/analysis/analyze": legacyAnalyze,
		"/api/analysis/history": legacyHistory,
		"/api/analysis/{id}":    legacyAnalysis,
	}
}

// SeedDemoUser returns the account every demo store starts with.
func SeedDemoUser(now time.Time) models.DemoUser {
	return models.DemoUser{
		ID:            "demo-user-1",
		Username:      "demo",
		Email:         DemoEmail,
		Plan:          models.PlanFree,
		AnalysesUsed:  3,
		AnalysesLimit: 10,
		CreatedAt:     utils.Timestamp(now),
	}
}

// DemoToken returns an opaque demo session token.
func DemoToken(now time.Time) string {
	return fmt.Sprintf("demo-token-%d", now.UnixMilli())
}

// NewDemoAnalysis draws a randomized legacy analysis. Confidence is an
// integer percentage in [70, 99] and authenticity in [60, 99].
func NewDemoAnalysis(src Source, now time.Time, userID, filename string) models.DemoAnalysis {
	if filename == "" {
		filename = "uploaded-image.jpg"
	}

	year := 365 * 24 * time.Hour
	firstSeen := now.Add(-time.Duration(src.Float64() * float64(year)))

	return models.DemoAnalysis{
		ID:            "analysis-" + uuid.NewString(),
		UserID:        userID,
		Filename:      filename,
		IsAIGenerated: chance(src, 0.5),
		Confidence:    70 + src.IntN(30),
		Authenticity:  60 + src.IntN(40),
		Metadata: models.DemoMetadata{
			HasExif:    chance(src, 0.7),
			Dimensions: "1920x1080",
			FileSize:   "2.4 MB",
			Format:     "JPEG",
		},
		OSINTResults: models.DemoOSINTResults{
			ReverseImageSearch: chance(src, 0.6),
			SimilarImages:      src.IntN(10),
			FirstSeen:          utils.Timestamp(firstSeen),
		},
		CreatedAt: utils.Timestamp(now),
	}
}

func legacyHealth(*build) any {
	return httputil.HealthResponse{
		Status:  "healthy",
		Message: "Demo API is running",
		Mode:    "demo",
	}
}

func legacyAuth(b *build) any {
	return models.DemoAuthResponse{
		Success: true,
		Token:   DemoToken(b.now),
		User:    SeedDemoUser(b.now),
	}
}

func legacyMe(b *build) any {
	return models.DemoUserResponse{User: SeedDemoUser(b.now)}
}

func legacyAnalyze(b *build) any {
	return models.DemoAnalysisResponse{
		Analysis: NewDemoAnalysis(b.src, b.now, "demo-user-1", ""),
	}
}

func legacyHistory(*build) any {
	return models.DemoHistoryResponse{Analyses: []models.DemoAnalysis{}}
}

func legacyAnalysis(b *build) any {
	a := NewDemoAnalysis(b.src, b.now, "demo-user-1", "")
	a.ID = b.params["id"]
	return models.DemoAnalysisResponse{Analysis: a}
}
