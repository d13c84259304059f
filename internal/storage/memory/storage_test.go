package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/wansatya/x.com/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) profile(id model.UserID, name string) *model.UserProfile {
	return &model.UserProfile{
		ID: id,
		ProviderProfile: model.ProviderProfile{
			ProviderID:  "password",
			UID:         string(id),
			DisplayName: name,
		},
		LastLogin: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Credential tests

func (s *StorageSuite) TestSaveAndGetCredential() {
	cred := &model.Credential{
		UserID:       "u-1",
		Username:     "alice",
		PasswordHash: "hash123",
		DisplayName:  "Alice",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveCredential(s.ctx, cred)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetCredential(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal(cred.Username, retrieved.Username)
	s.Equal(cred.PasswordHash, retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetCredentialByUsername() {
	cred := &model.Credential{UserID: "u-1", Username: "alice"}
	_ = s.storage.SaveCredential(s.ctx, cred)

	retrieved, err := s.storage.GetCredentialByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("u-1"), retrieved.UserID)
}

func (s *StorageSuite) TestGetCredentialNotFound() {
	_, err := s.storage.GetCredential(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrCredentialNotFound)

	_, err = s.storage.GetCredentialByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrCredentialNotFound)
}

func (s *StorageSuite) TestCredentialIsCopiedOnSave() {
	cred := &model.Credential{UserID: "u-1", Username: "alice", DisplayName: "Alice"}
	_ = s.storage.SaveCredential(s.ctx, cred)

	cred.DisplayName = "Mallory"

	retrieved, err := s.storage.GetCredential(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

// Profile tests

func (s *StorageSuite) TestCreateAndGetProfile() {
	err := s.storage.CreateProfile(s.ctx, s.profile("u-1", "Alice"))
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
	s.Nil(retrieved.HighScore)
}

func (s *StorageSuite) TestGetProfileNotFound() {
	_, err := s.storage.GetProfile(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestCreateProfileReplacesDocument() {
	_ = s.storage.CreateProfile(s.ctx, s.profile("u-1", "Alice"))
	_ = s.storage.SetHighScore(s.ctx, "u-1", 4)

	err := s.storage.CreateProfile(s.ctx, s.profile("u-1", "Alice B"))
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal("Alice B", retrieved.DisplayName)
	s.Nil(retrieved.HighScore)
}

func (s *StorageSuite) TestUpdateProfileMergesFields() {
	_ = s.storage.CreateProfile(s.ctx, s.profile("u-1", "Alice"))
	_ = s.storage.SetHighScore(s.ctx, "u-1", 7)
	login := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	err := s.storage.UpdateProfile(s.ctx, "u-1", model.ProfileUpdate{LastLogin: &login})
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal(login, retrieved.LastLogin)
	s.Equal("Alice", retrieved.DisplayName)
	s.Require().NotNil(retrieved.HighScore)
	s.Equal(7, *retrieved.HighScore)
}

func (s *StorageSuite) TestUpdateProfileNotFound() {
	login := time.Now()
	err := s.storage.UpdateProfile(s.ctx, "nonexistent", model.ProfileUpdate{LastLogin: &login})
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestSetHighScoreOverwrites() {
	_ = s.storage.CreateProfile(s.ctx, s.profile("u-1", "Alice"))

	s.Require().NoError(s.storage.SetHighScore(s.ctx, "u-1", 9))
	s.Require().NoError(s.storage.SetHighScore(s.ctx, "u-1", 3))

	retrieved, err := s.storage.GetProfile(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal(3, *retrieved.HighScore)
}

func (s *StorageSuite) TestSetHighScoreNotFound() {
	err := s.storage.SetHighScore(s.ctx, "nonexistent", 3)
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestReturnedProfileIsACopy() {
	_ = s.storage.CreateProfile(s.ctx, s.profile("u-1", "Alice"))
	_ = s.storage.SetHighScore(s.ctx, "u-1", 5)

	retrieved, _ := s.storage.GetProfile(s.ctx, "u-1")
	*retrieved.HighScore = 100

	again, _ := s.storage.GetProfile(s.ctx, "u-1")
	s.Equal(5, *again.HighScore)
}

func (s *StorageSuite) TestDeleteProfile() {
	_ = s.storage.CreateProfile(s.ctx, s.profile("u-1", "Alice"))

	err := s.storage.DeleteProfile(s.ctx, "u-1")
	s.Require().NoError(err)

	_, err = s.storage.GetProfile(s.ctx, "u-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

// Leaderboard tests

func (s *StorageSuite) TestTopScoresOrdersByScore() {
	for id, score := range map[model.UserID]int{"u-1": 3, "u-2": 9, "u-3": 5} {
		_ = s.storage.CreateProfile(s.ctx, s.profile(id, "player "+string(id)))
		_ = s.storage.SetHighScore(s.ctx, id, score)
	}
	_ = s.storage.CreateProfile(s.ctx, s.profile("u-4", "no score"))

	entries, err := s.storage.TopScores(s.ctx, 10)
	s.Require().NoError(err)

	s.Require().Len(entries, 3)
	s.Equal(model.UserID("u-2"), entries[0].UserID)
	s.Equal(9, entries[0].Score)
	s.Equal("player u-2", entries[0].DisplayName)
	s.Equal(model.UserID("u-3"), entries[1].UserID)
	s.Equal(model.UserID("u-1"), entries[2].UserID)
}

func (s *StorageSuite) TestTopScoresRespectsLimit() {
	for i, id := range []model.UserID{"u-1", "u-2", "u-3"} {
		_ = s.storage.CreateProfile(s.ctx, s.profile(id, "p"))
		_ = s.storage.SetHighScore(s.ctx, id, i)
	}

	entries, err := s.storage.TopScores(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(entries, 2)
	s.Equal(2, entries[0].Score)
}

func (s *StorageSuite) TestTopScoresEmpty() {
	entries, err := s.storage.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}
