// Command bruteforcer plays an escape room session over the HTTP API by
// guessing answers from a word list, optionally enriched with words taken
// from hints and found item descriptions.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

type runConfig struct {
	RoomID      string
	SessionID   string
	Words       []string
	UseHints    bool
	MaxAttempts int
	Delay       time.Duration
}

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "Escape a room by guessing answers through the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "room", Usage: "Room id for a new session"},
			&cli.StringFlag{Name: "session", Usage: "Resume playing an existing session by ID"},
			&cli.StringFlag{Name: "words", Usage: "File with one candidate answer per line"},
			&cli.BoolFlag{Name: "hints", Usage: "Request a hint per puzzle and guess words from it"},
			&cli.IntFlag{Name: "max-attempts", Value: 1000, Usage: "Maximum solve attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between attempts"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level := slog.LevelInfo
			if cmd.Bool("v") {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			words := DefaultWords
			if path := cmd.String("words"); path != "" {
				extra, err := readWords(path)
				if err != nil {
					return err
				}
				words = append(extra, words...)
			}

			cfg := runConfig{
				RoomID:      cmd.String("room"),
				SessionID:   cmd.String("session"),
				Words:       words,
				UseHints:    cmd.Bool("hints"),
				MaxAttempts: int(cmd.Int("max-attempts")),
				Delay:       cmd.Duration("delay"),
			}

			client := NewClient(cmd.String("url"))
			logger.Info("connecting to game server", "url", cmd.String("url"))

			view, attempts, err := run(ctx, client, cfg, logger)
			if err != nil {
				return err
			}
			if !view.Success {
				return fmt.Errorf("failed to escape after %d attempts (session %s)", attempts, client.SessionID())
			}

			logger.Info("escaped", "session", client.SessionID(), "attempts", attempts, "hints", view.HintsUsed)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run plays one session until it completes or the strategy runs out of
// guesses. It returns the final view and the number of solve attempts.
func run(ctx context.Context, client *Client, cfg runConfig, logger *slog.Logger) (*engine.View, int, error) {
	if cfg.SessionID != "" {
		client.Resume(cfg.SessionID)
		logger.Info("resuming session", "session", cfg.SessionID)
	} else {
		info, err := client.CreateSession(ctx, cfg.RoomID)
		if err != nil {
			return nil, 0, err
		}
		logger.Info("session created", "session", info.SessionID, "room", info.RoomID, "time_limit", info.TimeLimit)
	}

	view, err := client.GetState(ctx)
	if err != nil {
		return nil, 0, err
	}

	strategy := NewStrategy(cfg.Words)
	harvestItems(strategy, view)

	if cfg.UseHints {
		for _, id := range unsolvedPuzzles(view) {
			hint, err := client.Hint(ctx, id)
			if err != nil {
				return nil, 0, err
			}
			logger.Debug("hint", "puzzle", id, "hint", hint.Hint)
			strategy.Harvest(hint.Hint)
		}
	}

	attempts := 0
	for !view.Completed && attempts < cfg.MaxAttempts {
		puzzleID, attempt, ok := strategy.Next(view)
		if !ok {
			logger.Warn("no candidates left", "unsolved", unsolvedPuzzles(view))
			break
		}

		result, err := client.Solve(ctx, puzzleID, attempt)
		if err != nil {
			return view, attempts, err
		}
		attempts++
		strategy.Record(puzzleID, attempt, result)

		if result.Success {
			logger.Info("solved", "puzzle", puzzleID, "answer", attempt, "items", result.ItemsFound)
		} else {
			logger.Debug("rejected", "puzzle", puzzleID, "answer", attempt)
		}

		view, err = client.GetState(ctx)
		if err != nil {
			return nil, attempts, err
		}
		if len(result.ItemsFound) > 0 {
			harvestItems(strategy, view)
		}

		if cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return view, attempts, ctx.Err()
			case <-time.After(cfg.Delay):
			}
		}
	}

	return view, attempts, nil
}

func harvestItems(s *Strategy, view *engine.View) {
	for _, item := range view.Items {
		if item.Found {
			s.Harvest(item.Description)
		}
	}
}

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}
