package localstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/wansatya/x.com/internal/model"
)

type StoreSuite struct {
	suite.Suite
	path  string
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "nested", "state.json")
	s.store = New(s.path)
}

func (s *StoreSuite) user(id string) model.User {
	return model.User{
		ID: model.UserID(id),
		Profile: model.ProviderProfile{
			ProviderID:  "password",
			UID:         id,
			DisplayName: "Alice",
		},
		LastLoginAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *StoreSuite) TestLoadWithoutFile() {
	_, ok, err := s.store.Load()

	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestRememberThenLoad() {
	s.Require().NoError(s.store.Remember(s.user("u1")))

	state, ok, err := s.store.Load()
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.UserID("u1"), state.UserID)
	s.Equal("Alice", state.User.DisplayName)
	s.True(state.LastLoginAt.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func (s *StoreSuite) TestFilePermissions() {
	s.Require().NoError(s.store.Remember(s.user("u1")))

	info, err := os.Stat(s.path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0600), info.Mode().Perm())

	dir, err := os.Stat(filepath.Dir(s.path))
	s.Require().NoError(err)
	s.Equal(os.FileMode(0700), dir.Mode().Perm())
}

func (s *StoreSuite) TestRememberReplacesPreviousUser() {
	s.Require().NoError(s.store.Remember(s.user("u1")))

	s.Require().NoError(s.store.Remember(s.user("u2")))

	state, _, err := s.store.Load()
	s.Require().NoError(err)
	s.Equal(model.UserID("u2"), state.UserID)
}

func (s *StoreSuite) TestForget() {
	s.Require().NoError(s.store.Remember(s.user("u1")))

	s.Require().NoError(s.store.Forget())

	_, ok, err := s.store.Load()
	s.NoError(err)
	s.False(ok)
	s.NoError(s.store.Forget())
}

func (s *StoreSuite) TestCorruptFile() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0700))
	s.Require().NoError(os.WriteFile(s.path, []byte("{not json"), 0600))

	_, ok, err := s.store.Load()
	s.Error(err)
	s.False(ok)

	// Remember recovers by overwriting
	s.Require().NoError(s.store.Remember(s.user("u1")))
	_, ok, err = s.store.Load()
	s.NoError(err)
	s.True(ok)
}

func (s *StoreSuite) TestRecall() {
	user, err := s.store.Recall()
	s.Require().NoError(err)
	s.Nil(user)

	s.Require().NoError(s.store.Remember(s.user("u1")))

	user, err = s.store.Recall()
	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.Equal(model.UserID("u1"), user.ID)
	s.Equal("Alice", user.Profile.DisplayName)
	s.True(user.LastLoginAt.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func (s *StoreSuite) TestRecallCorruptFile() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0700))
	s.Require().NoError(os.WriteFile(s.path, []byte("{"), 0600))

	user, err := s.store.Recall()

	s.Error(err)
	s.Nil(user)
}
