package model

import "time"

// UserID uniquely identifies a signed-in user across the system
type UserID string

// ProviderProfile holds the public fields an identity provider reports
type ProviderProfile struct {
	ProviderID  string `json:"provider_id"`
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// User is the record yielded by a successful sign-in
type User struct {
	ID          UserID
	Profile     ProviderProfile
	CreatedAt   time.Time
	LastLoginAt time.Time
}

// IsFirstLogin reports whether this sign-in created the account
func (u *User) IsFirstLogin() bool {
	return u.CreatedAt.Equal(u.LastLoginAt)
}

// Credential is the password login record for a user
// Stored separately from the profile document
type Credential struct {
	UserID       UserID    `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// UserProfile is the score store document for a user
type UserProfile struct {
	ID UserID `json:"id"`
	ProviderProfile
	HighScore *int      `json:"high_score,omitempty"`
	LastLogin time.Time `json:"last_login,omitempty"`
}

// ProfileUpdate is a partial update of a profile document.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Provider  *ProviderProfile
	LastLogin *time.Time
}

// Apply merges the update into the profile
func (u ProfileUpdate) Apply(p *UserProfile) {
	if u.Provider != nil {
		p.ProviderProfile = *u.Provider
	}
	if u.LastLogin != nil {
		p.LastLogin = *u.LastLogin
	}
}

// ScoreEntry is one row of the leaderboard
type ScoreEntry struct {
	UserID      UserID `json:"user_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}
