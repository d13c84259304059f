package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wansatya/x.com/internal/services/auth"
	"github.com/wansatya/x.com/internal/testutil"
)

func withConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cfg = &Config{
		ServerURL: "http://127.0.0.1:1",
		TokenFile: filepath.Join(dir, "token"),
		StateFile: filepath.Join(dir, "state.json"),
	}
	client = NewClient(cfg.ServerURL, "")
	t.Setenv("STORAGE_TYPE", "")
}

func TestSetupPlaySignedOutWithoutUser(t *testing.T) {
	withConfig(t)

	app, gameCfg, err := setupPlay(context.Background(), playOptions{}, testutil.NopLogger())

	require.NoError(t, err)
	assert.NotNil(t, app.Storage)
	assert.Nil(t, gameCfg.Identity)
	assert.NotNil(t, gameCfg.Local)
	assert.False(t, gameCfg.Tuning.HoldUntilFirstInput)
}

func TestSetupPlayLocalAccount(t *testing.T) {
	withConfig(t)

	_, gameCfg, err := setupPlay(context.Background(), playOptions{user: "alice", pass: "password123", hold: true}, testutil.NopLogger())

	require.NoError(t, err)
	assert.IsType(t, &auth.PasswordProvider{}, gameCfg.Identity)
	assert.Nil(t, gameCfg.Scores)
	assert.True(t, gameCfg.Tuning.HoldUntilFirstInput)
}

func TestSetupPlayRemoteAccount(t *testing.T) {
	withConfig(t)

	_, gameCfg, err := setupPlay(context.Background(), playOptions{remote: true}, testutil.NopLogger())

	require.NoError(t, err)
	assert.IsType(t, &RemoteIdentity{}, gameCfg.Identity)
	assert.IsType(t, &RemoteScores{}, gameCfg.Scores)
}

func TestSetupPlayRejectsBadStorage(t *testing.T) {
	withConfig(t)
	t.Setenv("STORAGE_TYPE", "sqlite")

	_, _, err := setupPlay(context.Background(), playOptions{}, testutil.NopLogger())

	assert.Error(t, err)
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "game.log")

	logger, closeLog, err := openLogFile(path, true)
	require.NoError(t, err)
	logger.Debug("hello")
	closeLog()

	assert.FileExists(t, path)
}
