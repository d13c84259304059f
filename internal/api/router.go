package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wansatya/x.com/internal/api/handler"
	"github.com/wansatya/x.com/internal/api/middleware"
	"github.com/wansatya/x.com/internal/api/sse"
	"github.com/wansatya/x.com/internal/services/auth"
	"github.com/wansatya/x.com/internal/storage"
	"github.com/wansatya/x.com/internal/web"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Storage     storage.Storage
	// ScoreHub enables GET /api/v1/scores/stream (optional)
	ScoreHub *sse.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.Logger)
	scoresHandler := handler.NewScoresHandler(cfg.Storage, cfg.ScoreHub, cfg.Logger)
	profileHandler := handler.NewProfileHandler(cfg.Storage, scoresHandler, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for registering/logging in)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Profile routes (all require auth)
	profiles := api.PathPrefix("/profiles").Subrouter()
	profiles.Use(authMiddleware)
	profiles.HandleFunc("/me", profileHandler.Get).Methods(http.MethodGet)
	profiles.HandleFunc("/me", profileHandler.Put).Methods(http.MethodPut)
	profiles.HandleFunc("/me", profileHandler.Patch).Methods(http.MethodPatch)
	profiles.HandleFunc("/me/high-score", profileHandler.SetHighScore).Methods(http.MethodPut)

	// Leaderboard is public
	api.HandleFunc("/scores", scoresHandler.Top).Methods(http.MethodGet)
	if cfg.ScoreHub != nil {
		api.HandleFunc("/scores/stream", scoresHandler.Stream).Methods(http.MethodGet)
	}

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// HTML leaderboard
	streamURL := ""
	if cfg.ScoreHub != nil {
		streamURL = "/api/v1/scores/stream"
	}
	pages := r.NewRoute().Subrouter()
	pages.Use(recoveryMiddleware)
	pages.Use(loggingMiddleware)
	web.NewLeaderboardHandler(cfg.Storage, streamURL, cfg.Logger).Register(pages)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
