package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wansatya/x.com/internal/api"
	"github.com/wansatya/x.com/internal/factory"
	"github.com/wansatya/x.com/internal/model"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "wastegame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wastegame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "WASTEGAME_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Storage:     app.Storage,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type userResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	SessionToken string       `json:"session_token"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Provider struct {
		DisplayName string `json:"display_name"`
	} `json:"provider"`
	HighScore *int `json:"high_score"`
}

type leaderboardResponse struct {
	Scores []struct {
		UserID      string `json:"user_id"`
		DisplayName string `json:"display_name"`
		Score       int    `json:"score"`
	} `json:"scores"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Register
	output, err := cli.run("player", "register", "--user", "alice", "--pass", "password123", "--name", "Alice", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "Alice", authResp.User.DisplayName)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	var me userResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, "Alice", me.DisplayName)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, authResp.User.ID, me.ID)

	// Logout removes the token file
	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Logged out", msg.Message)
	_, err = os.Stat(cli.tokenFile)
	assert.True(t, os.IsNotExist(err))

	// The old session no longer works
	output, err = cli.runWithToken(authResp.SessionToken, "player", "me")
	assert.Error(t, err, "output: %s", output)

	// Login again
	output, err = cli.run("player", "login", "--user", "alice", "--pass", "password123")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, me.ID, authResp.User.ID)
}

func TestCLI_LoginWrongPasswordFails(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("player", "register", "--user", "alice", "--pass", "password123")
	require.NoError(t, err)

	output, err := cli.run("player", "login", "--user", "alice", "--pass", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_CREDENTIALS")
}

func TestCLI_ProfileAndScores(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--user", "alice", "--pass", "password123", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))

	// No profile until a game signs in
	output, err = cli.run("player", "profile")
	assert.Error(t, err)
	assert.Contains(t, output, "PROFILE_NOT_FOUND")

	ctx := context.Background()
	id := model.UserID(authResp.User.ID)
	require.NoError(t, ts.app.Storage.CreateProfile(ctx, &model.UserProfile{
		ID:              id,
		ProviderProfile: model.ProviderProfile{DisplayName: "Alice"},
		LastLogin:       time.Now(),
	}))
	require.NoError(t, ts.app.Storage.SetHighScore(ctx, id, 42))

	output, err = cli.run("player", "profile")
	require.NoError(t, err, "output: %s", output)

	var profile profileResponse
	require.NoError(t, json.Unmarshal([]byte(output), &profile))
	assert.Equal(t, authResp.User.ID, profile.ID)
	assert.Equal(t, "Alice", profile.Provider.DisplayName)
	require.NotNil(t, profile.HighScore)
	assert.Equal(t, 42, *profile.HighScore)

	output, err = cli.run("scores", "--limit", "5")
	require.NoError(t, err, "output: %s", output)

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	require.Len(t, board.Scores, 1)
	assert.Equal(t, "Alice", board.Scores[0].DisplayName)
	assert.Equal(t, 42, board.Scores[0].Score)
}

func TestCLI_ScoresRejectsBadLimit(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("scores", "--limit", "0")
	assert.Error(t, err)
}
