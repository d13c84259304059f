package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wansatya/x.com/internal/audio"
	"github.com/wansatya/x.com/internal/factory"
	"github.com/wansatya/x.com/internal/host/ebitenhost"
	"github.com/wansatya/x.com/internal/localstate"
	"github.com/wansatya/x.com/internal/services/auth"
)

func main() {
	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %s\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		user, pass, name string
		scale            float64
		hold, mute       bool
	)

	cmd := &cobra.Command{
		Use:   "wastegame-web",
		Short: "Play wastegame in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))

			cfg, err := factory.ConfigFromEnv(logger)
			if err != nil {
				return err
			}
			app, err := factory.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}

			gameCfg := factory.DefaultGameConfig()
			gameCfg.Tuning.HoldUntilFirstInput = hold
			gameCfg.Local = localstate.New(localstate.DefaultPath())
			if user != "" {
				creds := auth.StaticCredentials{Username: user, Password: pass, DisplayName: name}
				gameCfg.Identity = auth.NewPasswordProvider(app.AuthService, creds, true, logger)
			}

			if !mute {
				player := audio.NewPlayer(audio.DefaultConfig(), logger)
				if err := player.Init(); err != nil {
					logger.Warn("audio unavailable, playing muted", slog.String("error", err.Error()))
				} else {
					defer player.Close()
					gameCfg.Audio = player
				}
			}

			game := app.NewGame(gameCfg)
			defer game.Close()

			return ebitenhost.New(game.World, logger).Run("wastegame", scale)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&user, "user", os.Getenv("WASTEGAME_USER"), "Username for sign-in (env: WASTEGAME_USER)")
	cmd.Flags().StringVar(&pass, "pass", os.Getenv("WASTEGAME_PASS"), "Password for sign-in (env: WASTEGAME_PASS)")
	cmd.Flags().StringVar(&name, "name", "", "Display name when the account is created on first sign-in")
	cmd.Flags().Float64Var(&scale, "scale", 1.5, "Window scale")
	cmd.Flags().BoolVar(&hold, "hold", false, "Wait for the first input before the timers start")
	cmd.Flags().BoolVar(&mute, "mute", false, "Disable sound")

	return cmd
}
