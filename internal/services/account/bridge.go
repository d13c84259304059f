// Package account connects the game to an identity provider and a score
// store. Network calls run on goroutines and their results are applied on
// the frame loop through the host dispatcher.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/model"
)

// IdentityProvider signs users in and out and reports the current user
type IdentityProvider interface {
	SignIn(ctx context.Context) (*model.User, error)
	SignOut(ctx context.Context) error
	// Subscribe calls fn with the current user and on every change, from
	// any goroutine. The returned function cancels the subscription.
	Subscribe(fn func(*model.User)) func()
}

// ScoreStore persists profile documents
type ScoreStore interface {
	CreateProfile(ctx context.Context, profile *model.UserProfile) error
	UpdateProfile(ctx context.Context, id model.UserID, update model.ProfileUpdate) error
	SetHighScore(ctx context.Context, id model.UserID, score int) error
	GetProfile(ctx context.Context, id model.UserID) (*model.UserProfile, error)
}

// LocalState caches the signed-in identity across restarts
type LocalState interface {
	// Recall returns the cached user, or nil when nothing is cached
	Recall() (*model.User, error)
	Remember(user model.User) error
	Forget() error
}

// Game is the part of the game controller the bridge drives
type Game interface {
	SetAccount(displayName string, authenticated bool)
	HighScoreSaved(score int)
	Session() *model.Session
}

// Host is the host surface the bridge needs
type Host interface {
	host.Dispatcher
	host.Timers
	host.Display
}

// Config holds bridge settings
type Config struct {
	RequestTimeout  time.Duration
	MessageDuration time.Duration
}

// DefaultConfig returns the default bridge settings
func DefaultConfig() Config {
	return Config{
		RequestTimeout:  15 * time.Second,
		MessageDuration: 3 * time.Second,
	}
}

// Bridge implements the game's account control. Its methods must be called
// from the frame loop.
type Bridge struct {
	identity IdentityProvider
	store    ScoreStore
	local    LocalState
	host     Host
	game     Game
	cfg      Config
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	user *model.User
	// cached is set while user came from local state and the provider has
	// not reported anyone yet
	cached      bool
	signingIn   bool
	saving      bool
	message     host.Timer
	unsubscribe func()
}

// New creates a Bridge. identity and local may be nil; without an identity
// the bridge can only restore a cached user and sign-in fails with
// model.ErrNoCredentials.
func New(
	identity IdentityProvider,
	store ScoreStore,
	local LocalState,
	h Host,
	game Game,
	cfg Config,
	logger *slog.Logger,
) *Bridge {
	if identity == nil {
		identity = noIdentity{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		identity: identity,
		store:    store,
		local:    local,
		host:     h,
		game:     game,
		cfg:      cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start greets the cached user, if any, then follows the identity
// provider's current user. Call it from the frame loop.
func (b *Bridge) Start() {
	b.restoreCached()
	b.unsubscribe = b.identity.Subscribe(func(u *model.User) {
		b.host.Post(func() { b.followUser(u) })
	})
}

// restoreCached signs the game in as the locally cached user and checks in
// the background that the store still accepts it
func (b *Bridge) restoreCached() {
	if b.local == nil {
		return
	}
	user, err := b.local.Recall()
	if err != nil {
		b.logger.Warn("failed to read cached user", slog.String("error", err.Error()))
		return
	}
	if user == nil {
		return
	}

	b.cached = true
	b.applyUser(user)
	b.logger.Info("restored cached user", slog.String("user_id", string(user.ID)))

	f := Go(b.ctx, func(ctx context.Context) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
		defer cancel()

		_, err := b.store.GetProfile(ctx, user.ID)
		if errors.Is(err, model.ErrProfileNotFound) {
			err = b.createProfile(ctx, user)
		}
		return struct{}{}, err
	})

	b.deliver(f.Done(), func() {
		if _, err := f.Wait(context.Background()); err != nil && b.cached {
			b.logger.Warn("cached user rejected, signing out",
				slog.String("user_id", string(user.ID)),
				slog.String("error", err.Error()),
			)
			b.dropCached()
		}
	})
}

// followUser applies a provider report. A signed-out report does not
// replace a cached user.
func (b *Bridge) followUser(u *model.User) {
	if u == nil && b.cached {
		return
	}
	b.cached = false
	b.applyUser(u)
}

func (b *Bridge) dropCached() {
	b.cached = false
	if b.local != nil {
		if err := b.local.Forget(); err != nil {
			b.logger.Warn("failed to clear cached user", slog.String("error", err.Error()))
		}
	}
	b.applyUser(nil)
}

// Close stops following the provider and cancels pending requests
func (b *Bridge) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.cancel()
}

// User returns the signed-in user, or nil
func (b *Bridge) User() *model.User {
	return b.user
}

// RequestSignIn starts a sign-in without waiting for it
func (b *Bridge) RequestSignIn() {
	b.SignIn()
}

// RequestSignOut starts a sign-out without waiting for it
func (b *Bridge) RequestSignOut() {
	b.SignOut()
}

// RequestSaveScore starts a high score write without waiting for it
func (b *Bridge) RequestSaveScore(score int) {
	b.SaveScore(score)
}

// SignIn signs in through the identity provider, then creates the profile
// document on the first login or refreshes it on later ones
func (b *Bridge) SignIn() *Future[*model.User] {
	if b.signingIn {
		return Resolved[*model.User](nil, ErrRequestPending)
	}
	b.signingIn = true

	f := Go(b.ctx, func(ctx context.Context) (*model.User, error) {
		ctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
		defer cancel()

		user, err := b.identity.SignIn(ctx)
		if err != nil {
			return nil, err
		}
		if err := b.syncProfile(ctx, user); err != nil {
			return user, err
		}
		if b.local != nil {
			if err := b.local.Remember(*user); err != nil {
				b.logger.Warn("failed to cache signed-in user", slog.String("error", err.Error()))
			}
		}
		return user, nil
	})

	b.deliver(f.Done(), func() {
		b.signingIn = false
		user, err := f.Wait(context.Background())
		if err != nil {
			b.logger.Error("sign-in failed", slog.String("error", err.Error()))
		}
		if user != nil {
			b.cached = false
			b.applyUser(user)
		}
	})
	return f
}

// SignOut signs out and forgets the cached identity
func (b *Bridge) SignOut() *Future[struct{}] {
	f := Go(b.ctx, func(ctx context.Context) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
		defer cancel()

		if err := b.identity.SignOut(ctx); err != nil {
			return struct{}{}, err
		}
		if b.local != nil {
			if err := b.local.Forget(); err != nil {
				b.logger.Warn("failed to clear cached user", slog.String("error", err.Error()))
			}
		}
		return struct{}{}, nil
	})

	b.deliver(f.Done(), func() {
		if _, err := f.Wait(context.Background()); err != nil {
			b.logger.Error("sign-out failed", slog.String("error", err.Error()))
			return
		}
		b.cached = false
		b.applyUser(nil)
	})
	return f
}

// SaveScore writes score as the signed-in user's high score. On success the
// account control gives way to a confirmation message for a few seconds.
func (b *Bridge) SaveScore(score int) *Future[int] {
	if b.user == nil {
		b.logger.Warn("save score requested while signed out", slog.Int("score", score))
		return Resolved(0, model.ErrNotAuthenticated)
	}
	if b.saving {
		return Resolved(0, ErrRequestPending)
	}
	b.saving = true
	id := b.user.ID

	f := Go(b.ctx, func(ctx context.Context) (int, error) {
		ctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
		defer cancel()

		if err := b.store.SetHighScore(ctx, id, score); err != nil {
			return 0, err
		}
		return score, nil
	})

	b.deliver(f.Done(), func() {
		b.saving = false
		if _, err := f.Wait(context.Background()); err != nil {
			b.logger.Error("failed to save high score",
				slog.String("user_id", string(id)),
				slog.Int("score", score),
				slog.String("error", err.Error()),
			)
			return
		}
		b.showSavedMessage()
		b.game.HighScoreSaved(score)
	})
	return f
}

// syncProfile creates or refreshes the profile document for a sign-in
func (b *Bridge) syncProfile(ctx context.Context, user *model.User) error {
	if user.IsFirstLogin() {
		return b.createProfile(ctx, user)
	}

	provider := user.Profile
	login := user.LastLoginAt
	err := b.store.UpdateProfile(ctx, user.ID, model.ProfileUpdate{
		Provider:  &provider,
		LastLogin: &login,
	})
	if errors.Is(err, model.ErrProfileNotFound) {
		b.logger.Warn("profile missing for returning user, creating it", slog.String("user_id", string(user.ID)))
		return b.createProfile(ctx, user)
	}
	return err
}

func (b *Bridge) createProfile(ctx context.Context, user *model.User) error {
	return b.store.CreateProfile(ctx, &model.UserProfile{
		ID:              user.ID,
		ProviderProfile: user.Profile,
		LastLogin:       user.LastLoginAt,
	})
}

func (b *Bridge) applyUser(u *model.User) {
	b.user = u
	if u == nil {
		b.game.SetAccount("", false)
		return
	}
	b.game.SetAccount(u.Profile.DisplayName, true)
}

func (b *Bridge) showSavedMessage() {
	if b.message != nil {
		b.message.Cancel()
	}
	b.host.SetVisible(host.TextAccount, false)
	b.host.SetVisible(host.TextHighScore, true)

	b.message = b.host.After(b.cfg.MessageDuration, func() {
		b.message = nil
		b.host.SetVisible(host.TextHighScore, false)
		b.host.SetVisible(host.TextAccount, b.game.Session().IsOver())
	})
}

// noIdentity stands in when no provider is configured
type noIdentity struct{}

func (noIdentity) SignIn(context.Context) (*model.User, error) { return nil, model.ErrNoCredentials }
func (noIdentity) SignOut(context.Context) error               { return nil }
func (noIdentity) Subscribe(fn func(*model.User)) func() {
	fn(nil)
	return func() {}
}

// deliver posts fn to the frame loop once done is closed
func (b *Bridge) deliver(done <-chan struct{}, fn func()) {
	go func() {
		<-done
		b.host.Post(fn)
	}()
}
