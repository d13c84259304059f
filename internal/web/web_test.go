package web_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/storage"
	"github.com/wansatya/x.com/internal/storage/memory"
	"github.com/wansatya/x.com/internal/web"
)

func newRouter(t *testing.T, store storage.Storage, streamURL string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := mux.NewRouter()
	web.NewLeaderboardHandler(store, streamURL, logger).Register(r)
	return r
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	require.NoError(t, err)
	return rr, doc
}

func seed(t *testing.T, store *memory.Storage, id, name string, score int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateProfile(ctx, &model.UserProfile{
		ID:              model.UserID(id),
		ProviderProfile: model.ProviderProfile{DisplayName: name},
	}))
	require.NoError(t, store.SetHighScore(ctx, model.UserID(id), score))
}

func TestLeaderboardPageListsScores(t *testing.T) {
	store := memory.New()
	seed(t, store, "u1", "Alice", 12)
	seed(t, store, "u2", "Bob", 30)

	rr, doc := get(t, newRouter(t, store, ""), "/scores")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Leaderboard - wastegame", doc.Find("title").Text())

	rows := doc.Find("#scores tbody tr")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "Bob", rows.Eq(0).Find("td.name").Text())
	assert.Equal(t, "30", rows.Eq(0).Find("td.score").Text())
	assert.Equal(t, "u2", rows.Eq(0).AttrOr("data-user", ""))
	assert.Equal(t, "Alice", rows.Eq(1).Find("td.name").Text())

	assert.Zero(t, doc.Find("script").Length())
}

func TestLeaderboardPageEmpty(t *testing.T) {
	_, doc := get(t, newRouter(t, memory.New(), ""), "/")

	assert.Equal(t, "No scores yet", doc.Find("#scores td.empty").Text())
}

func TestLeaderboardPageEscapesNames(t *testing.T) {
	store := memory.New()
	seed(t, store, "u1", `<script>alert("x")</script>`, 5)

	rr, doc := get(t, newRouter(t, store, ""), "/scores")

	assert.NotContains(t, rr.Body.String(), `<script>alert`)
	assert.Equal(t, `<script>alert("x")</script>`, doc.Find("td.name").Text())
}

func TestLeaderboardPageFollowsStream(t *testing.T) {
	_, doc := get(t, newRouter(t, memory.New(), "/api/v1/scores/stream"), "/scores")

	script := doc.Find("script")
	require.Equal(t, 1, script.Length())
	assert.Equal(t, "/api/v1/scores/stream", script.AttrOr("data-stream", ""))
}

type brokenStorage struct {
	storage.Storage
}

func (brokenStorage) TopScores(context.Context, int) ([]model.ScoreEntry, error) {
	return nil, errors.New("connection refused")
}

func TestLeaderboardPageStorageError(t *testing.T) {
	rr, _ := get(t, newRouter(t, brokenStorage{}, ""), "/scores")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
