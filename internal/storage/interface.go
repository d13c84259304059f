package storage

import (
	"context"

	"github.com/wansatya/x.com/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Credential operations
	SaveCredential(ctx context.Context, cred *model.Credential) error
	GetCredential(ctx context.Context, id model.UserID) (*model.Credential, error)
	GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error)

	// Profile operations

	// CreateProfile writes the whole document, replacing any existing one
	CreateProfile(ctx context.Context, profile *model.UserProfile) error
	GetProfile(ctx context.Context, id model.UserID) (*model.UserProfile, error)
	// UpdateProfile merges update into an existing document
	UpdateProfile(ctx context.Context, id model.UserID, update model.ProfileUpdate) error
	// SetHighScore overwrites the stored high score of an existing document
	SetHighScore(ctx context.Context, id model.UserID, score int) error
	DeleteProfile(ctx context.Context, id model.UserID) error

	// Leaderboard operations
	TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error)
}
