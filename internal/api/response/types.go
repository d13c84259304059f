package response

import (
	"time"

	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/services/auth"
)

// User represents a signed-in user in API responses
type User struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"provider_id"`
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:          string(u.ID),
		ProviderID:  u.Profile.ProviderID,
		UID:         u.Profile.UID,
		DisplayName: u.Profile.DisplayName,
		Email:       u.Profile.Email,
		PhotoURL:    u.Profile.PhotoURL,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// Model converts back to a model.User
func (u User) Model() *model.User {
	return &model.User{
		ID: model.UserID(u.ID),
		Profile: model.ProviderProfile{
			ProviderID:  u.ProviderID,
			UID:         u.UID,
			DisplayName: u.DisplayName,
			Email:       u.Email,
			PhotoURL:    u.PhotoURL,
		},
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Profile is a stored profile document
type Profile struct {
	ID        string                `json:"id"`
	Provider  model.ProviderProfile `json:"provider"`
	HighScore *int                  `json:"high_score,omitempty"`
	LastLogin time.Time             `json:"last_login"`
}

// ProfileFromModel converts a model.UserProfile
func ProfileFromModel(p *model.UserProfile) Profile {
	return Profile{
		ID:        string(p.ID),
		Provider:  p.ProviderProfile,
		HighScore: p.HighScore,
		LastLogin: p.LastLogin,
	}
}

// Model converts back to a model.UserProfile
func (p Profile) Model() *model.UserProfile {
	return &model.UserProfile{
		ID:              model.UserID(p.ID),
		ProviderProfile: p.Provider,
		HighScore:       p.HighScore,
		LastLogin:       p.LastLogin,
	}
}

// Leaderboard lists the best high scores, best first
type Leaderboard struct {
	Scores []model.ScoreEntry `json:"scores"`
}
