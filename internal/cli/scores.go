package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wansatya/x.com/internal/api/response"
)

func newScoresCmd() *cobra.Command {
	var (
		limit int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the high score leaderboard",
		Long: `Show the high score leaderboard.

With --watch the command stays connected and prints the top scores again
every time a player saves a high score. Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return watchScores(ctx, cfg.ServerURL, func(board response.Leaderboard) {
					out.Print(board)
				})
			}

			if limit < 1 || limit > 100 {
				return fmt.Errorf("--limit must be between 1 and 100")
			}

			var result response.Leaderboard
			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/scores?limit=%d", limit), &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries to show")
	cmd.Flags().BoolVar(&watch, "watch", false, "Stream leaderboard updates")

	return cmd
}

// watchScores calls fn with every leaderboard the server streams until ctx
// ends or the server closes the stream
func watchScores(ctx context.Context, serverURL string, fn func(response.Leaderboard)) error {
	url := strings.TrimSuffix(serverURL, "/") + "/api/v1/scores/stream"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for SSE
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	err = readEvents(resp.Body, func(event, data string) error {
		if event != "scores" {
			return nil
		}
		var board response.Leaderboard
		if err := json.Unmarshal([]byte(data), &board); err != nil {
			return fmt.Errorf("failed to parse leaderboard: %w", err)
		}
		fn(board)
		return nil
	})
	// Context cancellation is expected
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// readEvents parses a server-sent event stream, calling fn per event
func readEvents(r io.Reader, fn func(event, data string) error) error {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			// End of event
			if currentEvent != "" {
				if err := fn(currentEvent, strings.Join(dataLines, "\n")); err != nil {
					return err
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream error: %w", err)
	}
	return nil
}
