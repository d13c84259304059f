package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wansatya/x.com/internal/api/request"
	"github.com/wansatya/x.com/internal/api/response"
	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/services/auth"
)

// RemoteIdentity signs in against the HTTP API. It is safe for concurrent use.
type RemoteIdentity struct {
	client       *Client
	source       auth.CredentialSource
	autoRegister bool
	onToken      func(token string) error
	logger       *slog.Logger

	mu      sync.Mutex
	current *model.User
	subs    map[int]func(*model.User)
	nextSub int
}

// NewRemoteIdentity creates a remote identity provider. onToken, if set, is
// called with each new session token and with "" after sign-out.
func NewRemoteIdentity(
	client *Client,
	source auth.CredentialSource,
	autoRegister bool,
	onToken func(token string) error,
	logger *slog.Logger,
) *RemoteIdentity {
	return &RemoteIdentity{
		client:       client,
		source:       source,
		autoRegister: autoRegister,
		onToken:      onToken,
		logger:       logger,
		subs:         make(map[int]func(*model.User)),
	}
}

// Resume restores the user of the client's saved token, if it is still valid
func (r *RemoteIdentity) Resume(ctx context.Context) (*model.User, error) {
	if r.client.Token() == "" {
		return nil, nil
	}

	var me response.User
	err := r.client.Get(ctx, "/api/v1/players/me", &me)
	if errors.Is(err, auth.ErrInvalidSession) {
		r.client.SetToken("")
		r.saveToken("")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user := me.Model()
	r.setCurrent(user)
	return user, nil
}

// SignIn logs in with credentials from the source, registering the account
// first when allowed
func (r *RemoteIdentity) SignIn(ctx context.Context) (*model.User, error) {
	creds, err := r.source.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	var result response.AuthResponse
	err = r.client.Post(ctx, "/api/v1/players/login", request.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	}, &result)
	if errors.Is(err, auth.ErrInvalidCredentials) && r.autoRegister {
		err = r.client.Post(ctx, "/api/v1/players/register", request.RegisterRequest{
			Username:    creds.Username,
			Password:    creds.Password,
			DisplayName: creds.DisplayName,
			Email:       creds.Email,
		}, &result)
		if errors.Is(err, auth.ErrUsernameExists) {
			err = auth.ErrInvalidCredentials
		}
	}
	if err != nil {
		return nil, err
	}

	r.client.SetToken(result.SessionToken)
	r.saveToken(result.SessionToken)

	user := result.User.Model()
	r.logger.Info("signed in",
		slog.String("user_id", string(user.ID)),
		slog.Bool("first_login", user.IsFirstLogin()),
	)
	r.setCurrent(user)
	return user, nil
}

// SignOut ends the server session. Signing out while signed out is a no-op.
func (r *RemoteIdentity) SignOut(ctx context.Context) error {
	r.mu.Lock()
	user := r.current
	r.mu.Unlock()

	if user == nil {
		return nil
	}

	err := r.client.Post(ctx, "/api/v1/players/logout", nil, nil)
	if err != nil && !errors.Is(err, auth.ErrInvalidSession) {
		return err
	}

	r.client.SetToken("")
	r.saveToken("")
	r.logger.Info("signed out", slog.String("user_id", string(user.ID)))
	r.setCurrent(nil)
	return nil
}

// Subscribe registers fn for user changes and calls it once with the
// current user. The returned function removes the subscription.
func (r *RemoteIdentity) Subscribe(fn func(*model.User)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	current := r.current
	r.mu.Unlock()

	fn(current)

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

func (r *RemoteIdentity) setCurrent(user *model.User) {
	r.mu.Lock()
	r.current = user
	fns := make([]func(*model.User), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

func (r *RemoteIdentity) saveToken(token string) {
	if r.onToken == nil {
		return
	}
	if err := r.onToken(token); err != nil {
		r.logger.Warn("failed to store session token", slog.String("error", err.Error()))
	}
}

// RemoteScores stores profile documents through the HTTP API. The server
// only serves the caller's own profile, so every id must be the signed-in
// user's.
type RemoteScores struct {
	client *Client
}

// NewRemoteScores creates a remote score store sharing client's session
func NewRemoteScores(client *Client) *RemoteScores {
	return &RemoteScores{client: client}
}

// CreateProfile writes the profile document for the signed-in user
func (s *RemoteScores) CreateProfile(ctx context.Context, profile *model.UserProfile) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	return s.client.Put(ctx, "/api/v1/profiles/me", request.PutProfileRequest{
		Provider:  profile.ProviderProfile,
		HighScore: profile.HighScore,
		LastLogin: profile.LastLogin,
	}, nil)
}

// UpdateProfile merges update into the signed-in user's profile
func (s *RemoteScores) UpdateProfile(ctx context.Context, id model.UserID, update model.ProfileUpdate) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	return s.client.Patch(ctx, "/api/v1/profiles/me", request.PatchProfileRequest{
		Provider:  update.Provider,
		LastLogin: update.LastLogin,
	}, nil)
}

// SetHighScore overwrites the signed-in user's high score
func (s *RemoteScores) SetHighScore(ctx context.Context, id model.UserID, score int) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	return s.client.Put(ctx, "/api/v1/profiles/me/high-score", request.HighScoreRequest{Score: &score}, nil)
}

// GetProfile returns the signed-in user's profile
func (s *RemoteScores) GetProfile(ctx context.Context, id model.UserID) (*model.UserProfile, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	var result response.Profile
	if err := s.client.Get(ctx, "/api/v1/profiles/me", &result); err != nil {
		return nil, err
	}
	profile := result.Model()
	if id != "" && profile.ID != id {
		return nil, fmt.Errorf("profile %s is not readable by %s: %w", id, profile.ID, model.ErrProfileNotFound)
	}
	return profile, nil
}

func (s *RemoteScores) requireSession() error {
	if s.client.Token() == "" {
		return model.ErrNotAuthenticated
	}
	return nil
}
