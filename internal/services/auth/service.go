package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wansatya/x.com/internal/dependencies/clock"
	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/storage"
)

// ProviderID identifies accounts created by this service in profile documents
const ProviderID = "password"

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username must not be empty")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	UserID    model.UserID
	User      model.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles credentials and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration   time.Duration
	minPasswordLength int
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration   time.Duration
	MinPasswordLength int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration:   24 * time.Hour,
		MinPasswordLength: 6,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:           storage,
		clock:             clock,
		sessions:          make(map[string]*Session),
		sessionDuration:   cfg.SessionDuration,
		minPasswordLength: cfg.MinPasswordLength,
	}
}

// Register creates an account and signs it in. The returned user reports
// IsFirstLogin.
func (s *Service) Register(ctx context.Context, username, password, displayName, email string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if len(password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Check if username exists
	_, err := s.storage.GetCredentialByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrCredentialNotFound) {
		return nil, err
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = username
	}
	now := s.clock.Now()

	cred := &model.Credential{
		UserID:       model.UserID(s.generateID("u_")),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Email:        email,
		CreatedAt:    now,
		LastLoginAt:  now,
	}

	if err := s.storage.SaveCredential(ctx, cred); err != nil {
		return nil, err
	}

	return s.createSession(cred), nil
}

// Login authenticates a user and records the sign-in time
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	cred, err := s.storage.GetCredentialByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrCredentialNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Only the registering sign-in may share its timestamp with CreatedAt
	now := s.clock.Now()
	if !now.After(cred.CreatedAt) {
		now = cred.CreatedAt.Add(time.Millisecond)
	}
	cred.LastLoginAt = now

	if err := s.storage.SaveCredential(ctx, cred); err != nil {
		return nil, err
	}

	return s.createSession(cred), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// GetUser returns the user for a session token
func (s *Service) GetUser(token string) (*model.User, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	return &session.User, nil
}

// UserFromCredential builds the sign-in record for a credential
func UserFromCredential(cred *model.Credential) model.User {
	return model.User{
		ID: cred.UserID,
		Profile: model.ProviderProfile{
			ProviderID:  ProviderID,
			UID:         string(cred.UserID),
			DisplayName: cred.DisplayName,
			Email:       cred.Email,
		},
		CreatedAt:   cred.CreatedAt,
		LastLoginAt: cred.LastLoginAt,
	}
}

// createSession creates a new session for a credential
func (s *Service) createSession(cred *model.Credential) *Session {
	token := s.generateID("sess_")
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		UserID:    cred.UserID,
		User:      UserFromCredential(cred),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
