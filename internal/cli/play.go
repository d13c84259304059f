package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/wansatya/x.com/internal/audio"
	"github.com/wansatya/x.com/internal/factory"
	"github.com/wansatya/x.com/internal/host/termhost"
	"github.com/wansatya/x.com/internal/localstate"
	"github.com/wansatya/x.com/internal/services/auth"
)

// playOptions are the flags of the play command
type playOptions struct {
	user         string
	pass         string
	name         string
	autoRegister bool
	remote       bool
	hold         bool
	mute         bool
}

func newPlayCmd() *cobra.Command {
	opts := playOptions{
		user: os.Getenv("WASTEGAME_USER"),
		pass: os.Getenv("WASTEGAME_PASS"),
	}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play in the terminal. Arrow keys or mouse clicks move, space jumps,
r restarts after game over, l signs in or saves the high score and o signs out.

Scores are kept in local storage (STORAGE_TYPE=memory|redis) unless
--remote is given, in which case the server named by --server is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := openLogFile(cfg.LogFile, cfg.Verbose)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, gameCfg, err := setupPlay(ctx, opts, logger)
			if err != nil {
				return err
			}

			if !opts.mute {
				player := audio.NewPlayer(audio.DefaultConfig(), logger)
				if err := player.Init(); err != nil {
					logger.Warn("audio unavailable, playing muted", slog.String("error", err.Error()))
				} else {
					defer player.Close()
					gameCfg.Audio = player
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to open terminal: %w", err)
			}

			game := app.NewGame(gameCfg)
			defer game.Close()

			return termhost.New(screen, game.World, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.user, "user", opts.user, "Username for sign-in (env: WASTEGAME_USER)")
	cmd.Flags().StringVar(&opts.pass, "pass", opts.pass, "Password for sign-in (env: WASTEGAME_PASS)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Display name when the account is created on first sign-in")
	cmd.Flags().BoolVar(&opts.autoRegister, "auto-register", true, "Register the username on first sign-in")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "Use the server for accounts and scores")
	cmd.Flags().BoolVar(&opts.hold, "hold", false, "Wait for the first input before the timers start")
	cmd.Flags().BoolVar(&opts.mute, "mute", false, "Disable sound")

	return cmd
}

// setupPlay builds the app and game configuration for the options. Local
// play without a username runs signed out.
func setupPlay(ctx context.Context, opts playOptions, logger *slog.Logger) (*factory.App, factory.GameConfig, error) {
	appCfg := factory.Config{Logger: logger}
	if !opts.remote {
		var err error
		appCfg, err = factory.ConfigFromEnv(logger)
		if err != nil {
			return nil, factory.GameConfig{}, err
		}
	}

	app, err := factory.New(appCfg)
	if err != nil {
		return nil, factory.GameConfig{}, fmt.Errorf("failed to create application: %w", err)
	}

	gameCfg := factory.DefaultGameConfig()
	gameCfg.Tuning.HoldUntilFirstInput = opts.hold
	gameCfg.Local = localstate.New(cfg.StateFile)

	creds := auth.StaticCredentials{
		Username:    opts.user,
		Password:    opts.pass,
		DisplayName: opts.name,
	}

	if opts.remote {
		identity := NewRemoteIdentity(client, creds, opts.autoRegister, func(token string) error {
			if token == "" {
				return cfg.ClearToken()
			}
			return cfg.SaveToken(token)
		}, logger)
		if user, err := identity.Resume(ctx); err != nil {
			logger.Warn("could not resume saved session", slog.String("error", err.Error()))
		} else if user != nil {
			logger.Info("resumed session", slog.String("user_id", string(user.ID)))
		}
		gameCfg.Identity = identity
		gameCfg.Scores = NewRemoteScores(client)
		return app, gameCfg, nil
	}

	if opts.user != "" {
		gameCfg.Identity = auth.NewPasswordProvider(app.AuthService, creds, opts.autoRegister, logger)
	}
	return app, gameCfg, nil
}

// openLogFile returns a JSON logger writing to path
func openLogFile(path string, verbose bool) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
