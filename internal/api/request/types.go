package request

import (
	"time"

	"github.com/wansatya/x.com/internal/model"
)

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PutProfileRequest replaces the caller's profile document
type PutProfileRequest struct {
	Provider  model.ProviderProfile `json:"provider"`
	HighScore *int                  `json:"high_score,omitempty"`
	LastLogin time.Time             `json:"last_login"`
}

// PatchProfileRequest merges fields into the caller's profile document.
// Omitted fields are left untouched.
type PatchProfileRequest struct {
	Provider  *model.ProviderProfile `json:"provider,omitempty"`
	LastLogin *time.Time             `json:"last_login,omitempty"`
}

// HighScoreRequest overwrites the caller's high score
type HighScoreRequest struct {
	Score *int `json:"score"`
}
