// Package models holds the JSON shapes exchanged with the Pixel Truth
// backend. The same types are produced by the mock responder and the demo
// store, so a caller cannot tell which side answered.
package models

const (
	PredictionAuthentic   = "authentic"
	PredictionAIGenerated = "ai_generated"
	PredictionManipulated = "manipulated"
)

const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// ModelVersion is the detector version the backend reports.
const ModelVersion = "v2.1.0"

type Features struct {
	UnlimitedScans  bool `json:"unlimited_scans"`
	BatchProcessing bool `json:"batch_processing"`
	APIAccess       bool `json:"api_access"`
	DetailedReports bool `json:"detailed_reports"`
	PrioritySupport bool `json:"priority_support"`
}

type User struct {
	ID                   string    `json:"id"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	Plan                 string    `json:"plan"`
	AnalysisCount        int       `json:"analysis_count"`
	MonthlyAnalysisLimit int       `json:"monthly_analysis_limit"`
	Features             *Features `json:"features,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ConnectionTest is the body of GET /api/auth/test.
type ConnectionTest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type UploadResponse struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	Mimetype     string `json:"mimetype"`
	UploadID     string `json:"upload_id"`
}

type AIProbabilities struct {
	Authentic   float64 `json:"authentic"`
	AIGenerated float64 `json:"ai_generated"`
	Manipulated float64 `json:"manipulated"`
}

type AnalysisMetadata struct {
	AIProbabilities AIProbabilities `json:"ai_probabilities"`
	ModelStatus     string          `json:"model_status"`
	ModelVersion    string          `json:"model_version"`
}

type MetadataAnalysis struct {
	HasExif        bool    `json:"has_exif"`
	SuspicionScore float64 `json:"suspicion_score"`
}

type OSINTAnalysis struct {
	MetadataAnalysis       MetadataAnalysis `json:"metadata_analysis"`
	AuthenticityIndicators []string         `json:"authenticity_indicators"`
}

// AnalysisResult is the body of POST /api/analysis/analyze.
type AnalysisResult struct {
	AnalysisID      string           `json:"analysis_id"`
	Prediction      string           `json:"prediction"`
	ConfidenceScore float64          `json:"confidence_score"`
	ProcessingTime  float64          `json:"processing_time"`
	Plan            string           `json:"plan"`
	Metadata        AnalysisMetadata `json:"metadata"`
	OSINTAnalysis   OSINTAnalysis    `json:"osint_analysis"`
	Status          string           `json:"status"`
	Message         string           `json:"message"`
}

type HistoryItem struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Filename        string  `json:"filename"`
	Prediction      string  `json:"prediction"`
	ConfidenceScore float64 `json:"confidence_score"`
	CreatedAt       string  `json:"created_at"`
}

type HistoryResponse struct {
	Analyses   []HistoryItem `json:"analyses"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

type FinalVerdict struct {
	IsAuthentic       bool    `json:"is_authentic"`
	OverallConfidence float64 `json:"overall_confidence"`
	Reasoning         string  `json:"reasoning"`
}

type MLResult struct {
	IsAIGenerated bool    `json:"is_ai_generated"`
	Confidence    float64 `json:"confidence"`
	ModelVersion  string  `json:"model_version"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ImageMetadata struct {
	Camera     string      `json:"camera,omitempty"`
	Timestamp  string      `json:"timestamp,omitempty"`
	Location   string      `json:"location,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

type ReverseImageSearch struct {
	Found   bool     `json:"found"`
	Sources []string `json:"sources"`
}

type Authenticity struct {
	Score   float64  `json:"score"`
	Factors []string `json:"factors"`
}

type OSINTResult struct {
	HasMetadata        bool               `json:"has_metadata"`
	Metadata           ImageMetadata      `json:"metadata"`
	ReverseImageSearch ReverseImageSearch `json:"reverse_image_search"`
	Authenticity       Authenticity       `json:"authenticity"`
}

// AnalysisDetail is the body of GET /api/analysis/{id}. ProcessingTime is
// in milliseconds here, unlike AnalysisResult.
type AnalysisDetail struct {
	ID               string       `json:"_id"`
	OriginalFilename string       `json:"original_filename"`
	ImageURL         string       `json:"image_url"`
	FileSize         int64        `json:"file_size"`
	CreatedAt        string       `json:"created_at"`
	ProcessingTime   float64      `json:"processing_time"`
	FinalVerdict     FinalVerdict `json:"final_verdict"`
	MLResult         MLResult     `json:"ml_result"`
	OSINTResult      OSINTResult  `json:"osint_result"`
}

type UserStats struct {
	TotalAnalyses       int `json:"total_analyses"`
	AuthenticImages     int `json:"authentic_images"`
	AIGeneratedImages   int `json:"ai_generated_images"`
	ManipulatedImages   int `json:"manipulated_images"`
	MonthlyAnalysesUsed int `json:"monthly_analyses_used"`
	MonthlyLimit        int `json:"monthly_limit"`
	RemainingAnalyses   int `json:"remaining_analyses"`
}
