package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/localstate"
	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/services/auth"
)

const frame = 16 * time.Millisecond

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// stepUntil steps the world until cond holds, giving background requests
// real time to finish
func (s *IntegrationSuite) stepUntil(g *Game, cond func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		s.Require().True(time.Now().Before(deadline), "condition not reached")
		g.World.Step(frame)
		time.Sleep(time.Millisecond)
	}
}

func (s *IntegrationSuite) runFor(g *Game, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		g.World.Step(frame)
	}
}

func (s *IntegrationSuite) visible(g *Game, id host.TextID) bool {
	for _, t := range g.World.Snapshot().Texts {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Test: a signed-out game runs out of energy and hides the account control
func (s *IntegrationSuite) TestSignedOutGameEnds() {
	g := s.app.NewGame(DefaultGameConfig())
	defer g.Close()

	s.Nil(g.Bridge)
	s.runFor(g, 6*time.Second)

	s.True(g.Controller.Session().IsOver())
	s.True(s.visible(g, host.TextGameOver))
	s.True(s.visible(g, host.TextRestart))
	s.False(s.visible(g, host.TextAccount))
}

// Test: game over, sign in from the end overlay, then save the high score
func (s *IntegrationSuite) TestSignInAndSaveHighScore() {
	provider := auth.NewPasswordProvider(s.app.AuthService,
		auth.StaticCredentials{Username: "alice", Password: "password123", DisplayName: "Alice"},
		true, s.app.Logger)
	local := localstate.New(filepath.Join(s.T().TempDir(), "state.json"))

	cfg := DefaultGameConfig()
	cfg.Tuning.ScoreInterval = time.Second
	cfg.Identity = provider
	cfg.Local = local
	g := s.app.NewGame(cfg)
	defer g.Close()

	// Energy runs out at 5s, before the 5s score tick
	s.runFor(g, 6*time.Second)
	s.Require().True(g.Controller.Session().IsOver())
	s.Equal(4, g.Controller.Session().Score)
	s.True(s.visible(g, host.TextAccount))

	// Account control signs in first
	g.World.Press(host.ControlAccount)
	s.stepUntil(g, func() bool { return g.Bridge.User() != nil })
	s.True(g.Controller.Session().Authenticated)

	user := g.Bridge.User()
	profile, err := s.app.Storage.GetProfile(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("Alice", profile.DisplayName)
	s.Nil(profile.HighScore)

	state, ok, err := local.Load()
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(user.ID, state.UserID)

	// Then saves the score
	g.World.Press(host.ControlAccount)
	s.stepUntil(g, func() bool { return s.visible(g, host.TextHighScore) })
	s.False(s.visible(g, host.TextAccount))

	profile, err = s.app.Storage.GetProfile(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(profile.HighScore)
	s.Equal(4, *profile.HighScore)

	// The message gives way to the control again
	s.runFor(g, 4*time.Second)
	s.False(s.visible(g, host.TextHighScore))
	s.True(s.visible(g, host.TextAccount))

	top, err := s.app.Storage.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]model.ScoreEntry{{UserID: user.ID, DisplayName: "Alice", Score: 4}}, top)
}

func (s *IntegrationSuite) text(g *Game, id host.TextID) string {
	for _, t := range g.World.Snapshot().Texts {
		if t.ID == id {
			return t.Text
		}
	}
	return ""
}

func (s *IntegrationSuite) signedInGame(local *localstate.Store) *Game {
	provider := auth.NewPasswordProvider(s.app.AuthService,
		auth.StaticCredentials{Username: "alice", Password: "password123", DisplayName: "Alice"},
		true, s.app.Logger)

	cfg := DefaultGameConfig()
	cfg.Identity = provider
	cfg.Local = local
	g := s.app.NewGame(cfg)

	s.runFor(g, 6*time.Second)
	s.Require().True(g.Controller.Session().IsOver())
	g.World.Press(host.ControlAccount)
	s.stepUntil(g, func() bool { return g.Bridge.User() != nil })
	return g
}

// Test: a later game greets the cached user and can save without signing in
func (s *IntegrationSuite) TestReloadGreetsCachedUser() {
	local := localstate.New(filepath.Join(s.T().TempDir(), "state.json"))
	first := s.signedInGame(local)
	user := *first.Bridge.User()
	first.Close()

	cfg := DefaultGameConfig()
	cfg.Tuning.ScoreInterval = time.Second
	cfg.Local = localstate.New(local.Path())
	g := s.app.NewGame(cfg)
	defer g.Close()

	g.World.Step(frame)
	s.Require().NotNil(g.Bridge)
	s.True(g.Controller.Session().Authenticated)
	s.Equal("hi, alice", s.text(g, host.TextGreeting))

	s.runFor(g, 6*time.Second)
	s.Require().True(g.Controller.Session().IsOver())
	s.Equal("save high score?", s.text(g, host.TextAccount))

	g.World.Press(host.ControlAccount)
	s.stepUntil(g, func() bool { return s.visible(g, host.TextHighScore) })

	profile, err := s.app.Storage.GetProfile(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(profile.HighScore)
	s.Equal(4, *profile.HighScore)
}

// Test: an empty state file leaves the game signed out with no control
func (s *IntegrationSuite) TestReloadWithoutCachedUser() {
	cfg := DefaultGameConfig()
	cfg.Local = localstate.New(filepath.Join(s.T().TempDir(), "state.json"))
	g := s.app.NewGame(cfg)
	defer g.Close()

	s.Nil(g.Bridge)
	s.False(g.Controller.Session().Authenticated)
}

// Test: the sign-out control ends the session and clears the cached user
func (s *IntegrationSuite) TestSignOutControl() {
	local := localstate.New(filepath.Join(s.T().TempDir(), "state.json"))
	g := s.signedInGame(local)
	defer g.Close()
	s.Require().True(g.Controller.Session().Authenticated)

	g.World.Press(host.ControlSignOut)
	s.stepUntil(g, func() bool { return !g.Controller.Session().Authenticated })

	s.Nil(g.Bridge.User())
	s.Equal("login", s.text(g, host.TextAccount))
	_, ok, err := local.Load()
	s.Require().NoError(err)
	s.False(ok)
}

// Test: restarting after game over starts a fresh session on the same world
func (s *IntegrationSuite) TestRestartFromOverlay() {
	g := s.app.NewGame(DefaultGameConfig())
	defer g.Close()
	s.runFor(g, 6*time.Second)
	s.Require().True(g.Controller.Session().IsOver())

	g.World.Press(host.ControlRestart)

	s.False(g.Controller.Session().IsOver())
	s.Equal(1, g.Controller.Session().Generation)
	s.False(s.visible(g, host.TextGameOver))
	s.runFor(g, 6*time.Second)
	s.True(g.Controller.Session().IsOver())
}

func (s *IntegrationSuite) TestNewRejectsUnknownStorage() {
	_, err := New(Config{StorageType: "sqlite"})
	s.Error(err)

	_, err = New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewDefaultsToMemory() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NotNil(app.AuthService)
	s.NotNil(app.Storage)
}

func (s *IntegrationSuite) TestConfigFromEnv() {
	s.T().Setenv("STORAGE_TYPE", "")
	cfg, err := ConfigFromEnv(nil)
	s.Require().NoError(err)
	s.Empty(cfg.StorageType)
	s.Nil(cfg.RedisConfig)

	s.T().Setenv("STORAGE_TYPE", StorageTypeRedis)
	s.T().Setenv("REDIS_URL", "")
	_, err = ConfigFromEnv(nil)
	s.Error(err)

	s.T().Setenv("REDIS_URL", "redis://cache:6379/2")
	cfg, err = ConfigFromEnv(nil)
	s.Require().NoError(err)
	s.Require().NotNil(cfg.RedisConfig)
	s.Equal("redis://cache:6379/2", cfg.RedisConfig.URL)
}
