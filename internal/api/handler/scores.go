package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wansatya/x.com/internal/api/response"
	"github.com/wansatya/x.com/internal/api/sse"
	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/storage"
)

// Leaderboard page size bounds
const (
	DefaultScoreLimit = 10
	MaxScoreLimit     = 100
)

// ScoresEvent is the event name of leaderboard updates on the stream
const ScoresEvent = "scores"

// ScoresHandler serves the leaderboard and its live stream
type ScoresHandler struct {
	storage storage.Storage
	hub     *sse.Hub
	logger  *slog.Logger
}

// NewScoresHandler creates a new scores handler. hub may be nil, which
// disables the stream.
func NewScoresHandler(storage storage.Storage, hub *sse.Hub, logger *slog.Logger) *ScoresHandler {
	return &ScoresHandler{
		storage: storage,
		hub:     hub,
		logger:  logger,
	}
}

// Top handles GET /api/v1/scores?limit=N
func (h *ScoresHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := DefaultScoreLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxScoreLimit {
			WriteError(w, NewInvalidRequestError("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	board, err := h.leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, board)
}

// Stream handles GET /api/v1/scores/stream. The current top scores are sent
// on connect and again after every high score change. It must only be
// routed when the handler has a hub.
func (h *ScoresHandler) Stream(w http.ResponseWriter, r *http.Request) {
	initial, err := h.event(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	sse.Serve(w, r, h.hub, r.RemoteAddr, initial)
}

// Publish sends the current top scores to every stream subscriber
func (h *ScoresHandler) Publish(ctx context.Context) {
	if h.hub == nil {
		return
	}
	msg, err := h.event(ctx)
	if err != nil {
		h.logger.Warn("failed to publish leaderboard", slog.String("error", err.Error()))
		return
	}
	h.hub.Broadcast(msg)
}

func (h *ScoresHandler) event(ctx context.Context) ([]byte, error) {
	board, err := h.leaderboard(ctx, DefaultScoreLimit)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(board)
	if err != nil {
		return nil, err
	}
	return sse.FormatEvent(ScoresEvent, string(data)), nil
}

func (h *ScoresHandler) leaderboard(ctx context.Context, limit int) (response.Leaderboard, error) {
	scores, err := h.storage.TopScores(ctx, limit)
	if err != nil {
		return response.Leaderboard{}, err
	}
	if scores == nil {
		scores = []model.ScoreEntry{}
	}
	return response.Leaderboard{Scores: scores}, nil
}
