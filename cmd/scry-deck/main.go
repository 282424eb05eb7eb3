// Package main implements the scry-deck command, which turns the transcript
// of a YouTube video or playlist into a multiple-choice Anki deck.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// main is the entry point for scry-deck. Interrupts cancel the run; the
// cards generated so far are discarded.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scry-deck <url>",
		Short: "Generate a multiple-choice Anki deck from YouTube transcripts",
		Example: `  # One video, 50 questions
  scry-deck "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

  # Every video of a playlist, 20 questions each, with a local model
  scry-deck "https://www.youtube.com/playlist?list=PL..." --num-questions 20 --provider ollama

  # Custom output path and deck name
  scry-deck dQw4w9WgXcQ -o decks/physics.txt --deck-name "Physics 101"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.Flags(), args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "Config file path (default: ./scry.yaml or $HOME/.config/scry/scry.yaml)")
	flags.StringP("output", "o", "output.txt", "Output deck file; a .json mirror is written next to it")
	flags.String("deck-name", "YouTube Quiz", "Deck name shown in Anki")
	flags.IntP("num-questions", "n", 50, "Number of questions per video")
	flags.String("provider", "gemini", "LLM provider: gemini, openai or ollama")
	flags.String("api-key", "", "API key for the selected provider (default: GEMINI_API_KEY or OPENAI_API_KEY)")
	flags.String("model", "", "Model name (default depends on provider)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")

	return cmd
}
