package models

// CreateSequenceRequest is the payload for POST /sequences.
// Items must be non-empty and every element a positive product ID.
type CreateSequenceRequest struct {
	Items []int64 `json:"items" validate:"required,min=1,dive,gt=0"`
}

// TokenResponse is the payload returned by POST /auth/token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HealthResponse is the payload returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Service  string `json:"service"`
	Error    string `json:"error,omitempty"`
}
