package models

// The types below are the older camelCase shapes served by the in-process
// demo backend and the legacy mock profile.

type DemoUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Plan          string `json:"plan"`
	AnalysesUsed  int    `json:"analysesUsed"`
	AnalysesLimit int    `json:"analysesLimit"`
	CreatedAt     string `json:"createdAt"`
}

type DemoAuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    DemoUser `json:"user"`
}

type DemoUserResponse struct {
	User DemoUser `json:"user"`
}

type DemoMetadata struct {
	HasExif    bool   `json:"hasExif"`
	Dimensions string `json:"dimensions"`
	FileSize   string `json:"fileSize"`
	Format     string `json:"format"`
}

type DemoOSINTResults struct {
	ReverseImageSearch bool   `json:"reverseImageSearch"`
	SimilarImages      int    `json:"similarImages"`
	FirstSeen          string `json:"firstSeen"`
}

type DemoAnalysis struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId,omitempty"`
	Filename      string           `json:"filename"`
	IsAIGenerated bool             `json:"isAIGenerated"`
	Confidence    int              `json:"confidence"`
	Authenticity  int              `json:"authenticity"`
	Metadata      DemoMetadata     `json:"metadata"`
	OSINTResults  DemoOSINTResults `json:"osintResults"`
	CreatedAt     string           `json:"createdAt"`
}

type DemoAnalysisResponse struct {
	Analysis DemoAnalysis `json:"analysis"`
}

type DemoHistoryResponse struct {
	Analyses []DemoAnalysis `json:"analyses"`
}
