package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/wansatya/x.com/internal/dependencies/mocks"
	"github.com/wansatya/x.com/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	session, err := s.service.Register(s.ctx, "alice", "password123", "Alice", "alice@example.com")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEmpty(session.UserID)
	s.Equal("Alice", session.User.Profile.DisplayName)
	s.Equal("alice@example.com", session.User.Profile.Email)
	s.Equal(ProviderID, session.User.Profile.ProviderID)
	s.Equal(string(session.UserID), session.User.Profile.UID)
}

func (s *ServiceSuite) TestRegisterIsFirstLogin() {
	session, err := s.service.Register(s.ctx, "alice", "password123", "Alice", "")
	s.Require().NoError(err)

	s.True(session.User.IsFirstLogin())
}

func (s *ServiceSuite) TestRegisterPersistsHashedCredential() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice", "")

	cred, err := s.storage.GetCredentialByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", cred.Username)
	s.NotEmpty(cred.PasswordHash)
	s.NotEqual("password123", cred.PasswordHash) // Should be hashed
}

func (s *ServiceSuite) TestRegisterDefaultsDisplayNameToUsername() {
	session, err := s.service.Register(s.ctx, "alice", "password123", "", "")
	s.Require().NoError(err)

	s.Equal("alice", session.User.Profile.DisplayName)
}

func (s *ServiceSuite) TestRegisterDuplicateUsernameFails() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice", "")

	_, err := s.service.Register(s.ctx, "alice", "different", "Alice 2", "")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterRejectsBadInput() {
	_, err := s.service.Register(s.ctx, "  ", "password123", "", "")
	s.ErrorIs(err, ErrInvalidUsername)

	_, err = s.service.Register(s.ctx, "alice", "abc", "", "")
	s.ErrorIs(err, ErrPasswordTooShort)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, _ := s.service.Register(s.ctx, "alice", "password123", "Alice", "")
	s.clock.Advance(time.Hour)

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEqual(registered.Token, session.Token)
	s.Equal(registered.UserID, session.UserID)
	s.Equal("Alice", session.User.Profile.DisplayName)
}

func (s *ServiceSuite) TestLoginIsNotFirstLogin() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice", "")
	s.clock.Advance(time.Hour)

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.False(session.User.IsFirstLogin())
	s.Equal(s.clock.Now(), session.User.LastLoginAt)
}

func (s *ServiceSuite) TestLoginAtRegistrationInstantIsNotFirstLogin() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice", "")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.False(session.User.IsFirstLogin())
	s.True(session.User.LastLoginAt.After(session.User.CreatedAt))
}

func (s *ServiceSuite) TestLoginPersistsLastLogin() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice", "")
	s.clock.Advance(time.Hour)

	session, _ := s.service.Login(s.ctx, "alice", "password123")

	cred, err := s.storage.GetCredential(s.ctx, session.UserID)
	s.Require().NoError(err)
	s.Equal(session.User.LastLoginAt, cred.LastLoginAt)
}

func (s *ServiceSuite) TestLoginWrongPasswordFails() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice", "")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUserFails() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.Register(s.ctx, "alice", "password123", "Alice", "")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.UserID, validated.UserID)
}

func (s *ServiceSuite) TestValidateSessionInvalidToken() {
	_, err := s.service.ValidateSession("invalid-token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionExpired() {
	session, _ := s.service.Register(s.ctx, "alice", "password123", "Alice", "")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, _ := s.service.Register(s.ctx, "alice", "password123", "Alice", "")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestGetUser() {
	session, _ := s.service.Register(s.ctx, "alice", "password123", "Alice", "")

	user, err := s.service.GetUser(session.Token)
	s.Require().NoError(err)
	s.Equal(session.UserID, user.ID)
	s.Equal("Alice", user.Profile.DisplayName)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	old, _ := s.service.Register(s.ctx, "alice", "password123", "Alice", "")
	s.clock.Advance(23 * time.Hour)
	fresh, _ := s.service.Login(s.ctx, "alice", "password123")
	s.clock.Advance(2 * time.Hour)

	s.service.CleanExpiredSessions()

	s.service.mu.RLock()
	defer s.service.mu.RUnlock()
	s.NotContains(s.service.sessions, old.Token)
	s.Contains(s.service.sessions, fresh.Token)
}
