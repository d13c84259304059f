// Package web serves the HTML leaderboard
package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wansatya/x.com/internal/storage"
	"github.com/wansatya/x.com/internal/web/templates"
)

// PageSize is how many scores the leaderboard page lists
const PageSize = 10

// LeaderboardHandler renders the leaderboard page
type LeaderboardHandler struct {
	storage   storage.Storage
	streamURL string
	logger    *slog.Logger
}

// NewLeaderboardHandler creates a handler. streamURL may be empty, which
// renders a static page.
func NewLeaderboardHandler(storage storage.Storage, streamURL string, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		storage:   storage,
		streamURL: streamURL,
		logger:    logger,
	}
}

// Register mounts the page on r at / and /scores
func (h *LeaderboardHandler) Register(r *mux.Router) {
	r.HandleFunc("/", h.Page).Methods(http.MethodGet)
	r.HandleFunc("/scores", h.Page).Methods(http.MethodGet)
}

// Page renders the leaderboard
func (h *LeaderboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	scores, err := h.storage.TopScores(r.Context(), PageSize)
	if err != nil {
		h.logger.Error("failed to load leaderboard", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := templates.LeaderboardData{
		PageData:  templates.PageData{Title: "Leaderboard"},
		Scores:    scores,
		StreamURL: h.streamURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Leaderboard(data).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render leaderboard", slog.String("error", err.Error()))
	}
}
