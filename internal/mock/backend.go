package mock

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pixeltruth/pixeltruth/internal/httputil"
	"github.com/pixeltruth/pixeltruth/internal/models"
	"github.com/pixeltruth/pixeltruth/internal/utils"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// backendRoutes mirrors the snake_case shapes of the current backend.
func backendRoutes() map[string]builder {
	return map[string]builder{
		"/api/health":           backendHealth,
		"/api/auth/test":        backendConnectionTest,
		"/api/auth/login":       backendLogin,
		"/api/auth/register":    backendRegister,
		"/api/auth/logout":      backendLogout,
		"/api/auth/me":          backendMe,
		"/api/upload":           backendUpload,
		"/api/analysis/analyze": backendAnalyze,
		"/api/analysis/history": backendHistory,
		"/api/analysis/{id}":    backendAnalysisDetail,
		"/api/user/stats":       backendUserStats,
	}
}

func backendHealth(*build) any {
	return httputil.HealthResponse{
		Status:       "healthy",
		Message:      "Mock API is running",
		Mode:         "emergency_mock",
		FreeScanning: true,
	}
}

func backendConnectionTest(*build) any {
	return models.ConnectionTest{
		Status:  "connected",
		Message: "Mock API connection OK",
	}
}

func premiumUser(now time.Time) models.User {
	return models.User{
		ID:                   fmt.Sprintf("premium_user_%d", now.UnixMilli()),
		Username:             "premium_user",
		Email:                "premium@pixeltruth.com",
		Plan:                 models.PlanPremium,
		AnalysisCount:        0,
		MonthlyAnalysisLimit: 1000,
		Features: &models.Features{
			UnlimitedScans:  true,
			BatchProcessing: true,
			APIAccess:       true,
			DetailedReports: true,
			PrioritySupport: true,
		},
	}
}

func backendLogin(b *build) any {
	return models.AuthResponse{
		Token:   fmt.Sprintf("premium_token_%d", b.now.UnixMilli()),
		User:    premiumUser(b.now),
		Message: "Welcome back to Pixel-Truth Premium!",
	}
}

func backendRegister(b *build) any {
	return models.AuthResponse{
		Token:   fmt.Sprintf("premium_token_%d", b.now.UnixMilli()),
		User:    premiumUser(b.now),
		Message: "Welcome to Pixel-Truth Premium plan!",
	}
}

func backendLogout(*build) any {
	return models.MessageResponse{Message: "Successfully logged out"}
}

func backendMe(*build) any {
	return models.User{
		ID:                   "demo_user_id",
		Username:             "demo_user",
		Email:                "demo@example.com",
		Plan:                 models.PlanFree,
		AnalysisCount:        0,
		MonthlyAnalysisLimit: 10,
	}
}

func backendUpload(b *build) any {
	return models.UploadResponse{
		Filename:     fmt.Sprintf("mock_image_%d.jpg", b.now.UnixMilli()),
		OriginalName: "sample_image.jpg",
		Size:         1024000,
		Mimetype:     "image/jpeg",
		UploadID:     "mock_upload_" + uuid.NewString(),
	}
}

// NewAnalysisResult draws a randomized analyze response. Confidence is
// always within [0.70, 0.99].
func NewAnalysisResult(src Source) models.AnalysisResult {
	prediction := models.PredictionAuthentic
	if chance(src, 0.5) {
		prediction = models.PredictionAIGenerated
	}

	confidence := between(src, 0.70, 0.99)
	rest := 1 - confidence
	manipulated := round2(rest * src.Float64() * 0.5)
	other := round2(rest - manipulated)

	probs := models.AIProbabilities{Manipulated: manipulated}
	if prediction == models.PredictionAuthentic {
		probs.Authentic, probs.AIGenerated = confidence, other
	} else {
		probs.Authentic, probs.AIGenerated = other, confidence
	}

	hasExif := chance(src, 0.7)

	return models.AnalysisResult{
		AnalysisID:      "mock_analysis_" + uuid.NewString(),
		Prediction:      prediction,
		ConfidenceScore: confidence,
		ProcessingTime:  between(src, 0.5, 3.0),
		Plan:            models.PlanFree,
		Metadata: models.AnalysisMetadata{
			AIProbabilities: probs,
			ModelStatus:     "loaded",
			ModelVersion:    models.ModelVersion,
		},
		OSINTAnalysis: models.OSINTAnalysis{
			MetadataAnalysis: models.MetadataAnalysis{
				HasExif:        hasExif,
				SuspicionScore: between(src, 0, 0.5),
			},
			AuthenticityIndicators: indicators(prediction, hasExif),
		},
		Status:  "completed",
		Message: "Free analysis completed. Register for premium features!",
	}
}

func indicators(prediction string, hasExif bool) []string {
	var out []string
	if prediction == models.PredictionAuthentic {
		out = []string{"Natural noise distribution detected", "Realistic compression patterns"}
	} else {
		out = []string{"Uniform texture patterns detected", "Frequency-domain artifacts present"}
	}
	if hasExif {
		out = append(out, "EXIF metadata present")
	} else {
		out = append(out, "Missing EXIF metadata")
	}
	return out
}

func backendAnalyze(b *build) any {
	return NewAnalysisResult(b.src)
}

func backendHistory(b *build) any {
	pageSize := queryInt(b.req.Query, defaultPageSize, "limit", "page_size")
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return models.HistoryResponse{
		Analyses:   []models.HistoryItem{},
		TotalCount: 0,
		Page:       queryInt(b.req.Query, 1, "page"),
		PageSize:   pageSize,
	}
}

func backendAnalysisDetail(b *build) any {
	return models.AnalysisDetail{
		ID:               b.params["id"],
		OriginalFilename: "sample_image.jpg",
		ImageURL:         "/uploads/sample_image.jpg",
		FileSize:         1024000,
		CreatedAt:        utils.Timestamp(b.now),
		ProcessingTime:   2100,
		FinalVerdict: models.FinalVerdict{
			IsAuthentic:       true,
			OverallConfidence: 0.89,
			Reasoning:         "Analysis not found in database. This is mock data.",
		},
		MLResult: models.MLResult{
			IsAIGenerated: false,
			Confidence:    0.91,
			ModelVersion:  models.ModelVersion,
		},
		OSINTResult: models.OSINTResult{
			HasMetadata:        false,
			ReverseImageSearch: models.ReverseImageSearch{Found: false, Sources: []string{}},
			Authenticity: models.Authenticity{
				Score:   0.5,
				Factors: []string{"Analysis not found"},
			},
		},
	}
}

func backendUserStats(*build) any {
	return models.UserStats{
		MonthlyLimit:      10,
		RemainingAnalyses: 10,
	}
}

// queryInt returns the first positive integer found under keys, or def.
func queryInt(q map[string][]string, def int, keys ...string) int {
	for _, key := range keys {
		values := q[key]
		if len(values) == 0 {
			continue
		}
		if n, err := strconv.Atoi(values[0]); err == nil && n > 0 {
			return n
		}
	}
	return def
}
