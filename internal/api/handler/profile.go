package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wansatya/x.com/internal/api/middleware"
	"github.com/wansatya/x.com/internal/api/request"
	"github.com/wansatya/x.com/internal/api/response"
	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/storage"
)

// ProfileHandler serves the caller's profile document. A caller can only
// read and write its own document.
type ProfileHandler struct {
	storage storage.Storage
	scores  ScorePublisher
	logger  *slog.Logger
}

// ScorePublisher is told about every saved high score
type ScorePublisher interface {
	Publish(ctx context.Context)
}

// NewProfileHandler creates a new profile handler. scores may be nil.
func NewProfileHandler(storage storage.Storage, scores ScorePublisher, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		storage: storage,
		scores:  scores,
		logger:  logger,
	}
}

// Get handles GET /api/v1/profiles/me
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	profile, err := h.storage.GetProfile(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(profile))
}

// Put handles PUT /api/v1/profiles/me, replacing the whole document
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.PutProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.HighScore != nil && *req.HighScore < 0 {
		WriteError(w, NewInvalidRequestError("high_score must not be negative"))
		return
	}

	profile := &model.UserProfile{
		ID:              user.ID,
		ProviderProfile: req.Provider,
		HighScore:       req.HighScore,
		LastLogin:       req.LastLogin,
	}
	if err := h.storage.CreateProfile(r.Context(), profile); err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("profile created", slog.String("user_id", string(user.ID)))
	response.JSON(w, http.StatusOK, response.ProfileFromModel(profile))
}

// Patch handles PATCH /api/v1/profiles/me, merging the given fields
func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.PatchProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	update := model.ProfileUpdate{Provider: req.Provider, LastLogin: req.LastLogin}
	if err := h.storage.UpdateProfile(r.Context(), user.ID, update); err != nil {
		WriteError(w, err)
		return
	}

	h.writeProfile(w, r, user.ID)
}

// SetHighScore handles PUT /api/v1/profiles/me/high-score. The stored value is
// overwritten, not compared.
func (h *ProfileHandler) SetHighScore(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.HighScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Score == nil {
		WriteError(w, NewInvalidRequestError("score is required"))
		return
	}
	if *req.Score < 0 {
		WriteError(w, NewInvalidRequestError("score must not be negative"))
		return
	}

	if err := h.storage.SetHighScore(r.Context(), user.ID, *req.Score); err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("high score saved",
		slog.String("user_id", string(user.ID)),
		slog.Int("score", *req.Score),
	)
	if h.scores != nil {
		h.scores.Publish(r.Context())
	}
	h.writeProfile(w, r, user.ID)
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, id model.UserID) {
	profile, err := h.storage.GetProfile(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(profile))
}
