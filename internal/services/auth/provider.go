package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/wansatya/x.com/internal/model"
)

// Credentials are the inputs of a password sign-in
type Credentials struct {
	Username    string
	Password    string
	DisplayName string // used when the account is registered on first sign-in
	Email       string
}

// CredentialSource supplies credentials when a sign-in is requested, for
// example from flags or an interactive prompt
type CredentialSource interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// StaticCredentials always returns the same credentials
type StaticCredentials Credentials

// Credentials returns c, or model.ErrNoCredentials when no username is set
func (c StaticCredentials) Credentials(ctx context.Context) (Credentials, error) {
	if c.Username == "" {
		return Credentials{}, model.ErrNoCredentials
	}
	return Credentials(c), nil
}

// PasswordProvider is an identity provider backed by the auth Service.
// It is safe for concurrent use.
type PasswordProvider struct {
	service      *Service
	source       CredentialSource
	autoRegister bool
	logger       *slog.Logger

	mu      sync.Mutex
	current *Session
	subs    map[int]func(*model.User)
	nextSub int
}

// NewPasswordProvider creates a provider. With autoRegister an unknown
// username is registered on its first sign-in.
func NewPasswordProvider(service *Service, source CredentialSource, autoRegister bool, logger *slog.Logger) *PasswordProvider {
	return &PasswordProvider{
		service:      service,
		source:       source,
		autoRegister: autoRegister,
		logger:       logger,
		subs:         make(map[int]func(*model.User)),
	}
}

// SignIn requests credentials from the source and authenticates them
func (p *PasswordProvider) SignIn(ctx context.Context) (*model.User, error) {
	creds, err := p.source.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	session, err := p.service.Login(ctx, creds.Username, creds.Password)
	if errors.Is(err, ErrInvalidCredentials) && p.autoRegister {
		session, err = p.service.Register(ctx, creds.Username, creds.Password, creds.DisplayName, creds.Email)
		if errors.Is(err, ErrUsernameExists) {
			err = ErrInvalidCredentials
		}
	}
	if err != nil {
		return nil, err
	}

	p.logger.Info("signed in",
		slog.String("user_id", string(session.UserID)),
		slog.Bool("first_login", session.User.IsFirstLogin()),
	)

	user := session.User
	p.mu.Lock()
	if p.current != nil {
		p.service.InvalidateSession(p.current.Token)
	}
	p.current = session
	p.mu.Unlock()

	p.notify(&user)
	return &user, nil
}

// SignOut ends the current session. Signing out while signed out is a no-op.
func (p *PasswordProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	session := p.current
	p.current = nil
	p.mu.Unlock()

	if session == nil {
		return nil
	}
	p.service.InvalidateSession(session.Token)
	p.logger.Info("signed out", slog.String("user_id", string(session.UserID)))
	p.notify(nil)
	return nil
}

// Subscribe registers fn for user changes and calls it once with the
// current user. The returned function removes the subscription.
func (p *PasswordProvider) Subscribe(fn func(*model.User)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	current := p.currentUserLocked()
	p.mu.Unlock()

	fn(current)

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Token returns the session token of the signed-in user
func (p *PasswordProvider) Token() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.Token, true
}

func (p *PasswordProvider) currentUserLocked() *model.User {
	if p.current == nil {
		return nil
	}
	user := p.current.User
	return &user
}

func (p *PasswordProvider) notify(user *model.User) {
	p.mu.Lock()
	fns := make([]func(*model.User), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}
