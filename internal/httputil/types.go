package httputil

// HealthResponse represents the JSON response from the backend /api/health
// endpoint. The mock profile answers with the same shape plus Mode.
type HealthResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	AIModel      string `json:"ai_model,omitempty"`
	Database     string `json:"database,omitempty"`
	Mode         string `json:"mode,omitempty"`
	FreeScanning bool   `json:"free_scanning,omitempty"`
}
