package factory

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/wansatya/x.com/internal/dependencies/clock"
	"github.com/wansatya/x.com/internal/dependencies/random"
	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/host/arcade"
	"github.com/wansatya/x.com/internal/services/account"
	"github.com/wansatya/x.com/internal/services/auth"
	"github.com/wansatya/x.com/internal/services/game"
	"github.com/wansatya/x.com/internal/storage"
	"github.com/wansatya/x.com/internal/storage/memory"
	redisstorage "github.com/wansatya/x.com/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService *auth.Service

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// ConfigFromEnv reads STORAGE_TYPE and REDIS_URL
func ConfigFromEnv(logger *slog.Logger) (Config, error) {
	cfg := Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	if cfg.StorageType == StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return cfg, errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg, nil
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		AuthService: auth.New(store, clk, authCfg),
		Logger:      logger,
	}
}

// GameConfig selects the parts of a playable game
type GameConfig struct {
	World  arcade.Config
	Tuning game.Tuning
	// Audio may be nil for a silent game
	Audio host.Audio

	// Identity enables the account control. Without it the game runs
	// signed out unless Local holds a cached user.
	Identity account.IdentityProvider
	// Scores defaults to the app storage
	Scores account.ScoreStore
	// Local may be nil. A cached user in it is greeted on start.
	Local  account.LocalState
	Bridge account.Config
}

// DefaultGameConfig returns a silent, signed-out game with default tuning
func DefaultGameConfig() GameConfig {
	return GameConfig{
		World:  arcade.DefaultConfig(),
		Tuning: game.DefaultTuning(),
		Bridge: account.DefaultConfig(),
	}
}

// Game is a world with its session controller and account bridge attached
type Game struct {
	World      *arcade.World
	Controller *game.Controller
	// Bridge is nil when there is neither an identity provider nor a cached
	// user
	Bridge *account.Bridge
}

// NewGame wires a world, controller and bridge and starts the first session.
// The caller drives it by calling World.Step from a single goroutine.
func (a *App) NewGame(cfg GameConfig) *Game {
	world := arcade.New(cfg.World, cfg.Audio, a.Logger)
	controller := game.NewController(world, a.Clock, a.Random, cfg.Tuning, a.Logger)
	world.Attach(controller)

	g := &Game{World: world, Controller: controller}
	if cfg.Identity != nil || cfg.Local != nil {
		scores := cfg.Scores
		if scores == nil {
			scores = a.Storage
		}
		bridge := account.New(cfg.Identity, scores, cfg.Local, world, controller, cfg.Bridge, a.Logger)
		bridge.Start()
		if cfg.Identity != nil || bridge.User() != nil {
			g.Bridge = bridge
			controller.SetAccounts(bridge)
		} else {
			bridge.Close()
		}
	}

	controller.Start()
	return g
}

// Close releases the account bridge
func (g *Game) Close() {
	if g.Bridge != nil {
		g.Bridge.Close()
	}
}
