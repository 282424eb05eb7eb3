package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/phrazzld/scry-deck/internal/events"
	"github.com/phrazzld/scry-deck/internal/pipeline"
)

const progressBarWidth = 30

// terminalProgress renders a single updating progress line per video. It is
// also an io.Writer so log records sharing the terminal end the open
// progress line first instead of being spliced into it.
type terminalProgress struct {
	mu sync.Mutex
	w  io.Writer

	// open is true while a progress line is drawn without its newline.
	open bool
}

func newTerminalProgress(w io.Writer) *terminalProgress {
	return &terminalProgress{w: w}
}

// isTerminal reports whether w is a character device such as a TTY.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Write implements io.Writer for log output.
func (p *terminalProgress) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		if _, err := io.WriteString(p.w, "\n"); err != nil {
			return 0, err
		}
		p.open = false
	}
	return p.w.Write(b)
}

// HandleEvent implements events.Handler.
func (p *terminalProgress) HandleEvent(_ context.Context, e events.ProgressEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	filled := int(e.Fraction() * progressBarWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", progressBarWidth-filled)

	_, err := fmt.Fprintf(p.w, "\rVideo %d/%d %s [%s] %d/%d batches",
		e.VideoIndex+1, e.VideoCount, e.VideoID, bar, e.Completed, e.Total)
	if err != nil {
		return err
	}
	p.open = !e.Done()
	if !p.open {
		_, err = fmt.Fprintln(p.w)
	}
	return err
}

// printSummary writes the final outcome of a run.
func printSummary(w io.Writer, s *pipeline.Summary) {
	for _, v := range s.Videos {
		if v.Skipped() {
			fmt.Fprintf(w, "Skipped video %s: %v\n", v.VideoID, v.SkipReason)
		}
	}

	if s.NoCards() {
		fmt.Fprintln(w, "No cards were generated.")
		return
	}

	fmt.Fprintf(w, "Success! Created %d cards.\n", len(s.Questions))
	if s.Artifacts != nil {
		fmt.Fprintf(w, " - Anki Deck: %s\n", s.Artifacts.DeckPath)
		fmt.Fprintf(w, " - JSON:      %s\n", s.Artifacts.JSONPath)
	}
}

var _ events.Handler = (*terminalProgress)(nil)
