package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	credentials   map[model.UserID]*model.Credential
	usernameIndex map[string]model.UserID
	profiles      map[model.UserID]*model.UserProfile
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		credentials:   make(map[model.UserID]*model.Credential),
		usernameIndex: make(map[string]model.UserID),
		profiles:      make(map[model.UserID]*model.UserProfile),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cred
	s.credentials[cred.UserID] = &c
	s.usernameIndex[cred.Username] = cred.UserID
	return nil
}

func (s *Storage) GetCredential(ctx context.Context, id model.UserID) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[id]
	if !ok {
		return nil, model.ErrCredentialNotFound
	}
	c := *cred
	return &c, nil
}

func (s *Storage) GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrCredentialNotFound
	}
	cred, ok := s.credentials[id]
	if !ok {
		return nil, model.ErrCredentialNotFound
	}
	c := *cred
	return &c, nil
}

// Profile operations

func (s *Storage) CreateProfile(ctx context.Context, profile *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = copyProfile(profile)
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id model.UserID) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return copyProfile(profile), nil
}

func (s *Storage) UpdateProfile(ctx context.Context, id model.UserID, update model.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return model.ErrProfileNotFound
	}
	update.Apply(profile)
	return nil
}

func (s *Storage) SetHighScore(ctx context.Context, id model.UserID, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return model.ErrProfileNotFound
	}
	profile.HighScore = &score
	return nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	return nil
}

// Leaderboard operations

func (s *Storage) TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.ScoreEntry, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.HighScore == nil {
			continue
		}
		entries = append(entries, model.ScoreEntry{
			UserID:      p.ID,
			DisplayName: p.DisplayName,
			Score:       *p.HighScore,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID > entries[j].UserID
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func copyProfile(p *model.UserProfile) *model.UserProfile {
	c := *p
	if p.HighScore != nil {
		score := *p.HighScore
		c.HighScore = &score
	}
	return &c
}
