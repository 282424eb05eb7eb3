package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/deck"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/events"
	"github.com/phrazzld/scry-deck/internal/generation"
	"github.com/phrazzld/scry-deck/internal/redact"
	"github.com/phrazzld/scry-deck/internal/transcript"
	"golang.org/x/sync/errgroup"
)

// DefaultPrefetchConcurrency bounds concurrent transcript fetches when the
// configured value is not positive.
const DefaultPrefetchConcurrency = 4

// Generator produces questions from one transcript. *generation.Scheduler
// implements it.
type Generator interface {
	Generate(
		ctx context.Context,
		transcript string,
		opts generation.Options,
		observer generation.ProgressObserver,
	) (*generation.Result, error)
}

// Exporter writes the final deck. *deck.Exporter implements it.
type Exporter interface {
	Export(questions []domain.QuizQuestion, outputPath string) (*deck.Artifacts, error)
}

// Options configures a Runner.
type Options struct {
	// Generation is applied to every video; TargetQuestions is per video.
	Generation generation.Options

	// OutputPath is the deck file path.
	OutputPath string

	// PrefetchConcurrency bounds concurrent transcript fetches.
	PrefetchConcurrency int
}

// Runner executes the end-to-end deck pipeline.
type Runner struct {
	resolver  transcript.PlaylistResolver
	source    transcript.Source
	generator Generator
	exporter  Exporter
	emitter   *events.Emitter
	opts      Options
	logger    *slog.Logger
}

// NewRunner creates a Runner after validating its dependencies.
func NewRunner(
	resolver transcript.PlaylistResolver,
	source transcript.Source,
	generator Generator,
	exporter Exporter,
	emitter *events.Emitter,
	opts Options,
	logger *slog.Logger,
) (*Runner, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if source == nil {
		return nil, ErrNilSource
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if exporter == nil {
		return nil, ErrNilExporter
	}
	if emitter == nil {
		return nil, ErrNilEmitter
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if err := opts.Generation.Validate(); err != nil {
		return nil, err
	}
	if opts.PrefetchConcurrency <= 0 {
		opts.PrefetchConcurrency = DefaultPrefetchConcurrency
	}

	return &Runner{
		resolver:  resolver,
		source:    source,
		generator: generator,
		exporter:  exporter,
		emitter:   emitter,
		opts:      opts,
		logger:    logger.With("component", "pipeline"),
	}, nil
}

// ResolveInput turns a playlist URL, video URL or bare video ID into an
// ordered list of video IDs.
func (r *Runner) ResolveInput(ctx context.Context, input string) ([]string, error) {
	if transcript.IsPlaylistURL(input) {
		r.logger.InfoContext(ctx, "Detected playlist URL")
		ids, err := r.resolver.ResolvePlaylist(ctx, input)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, ErrNoVideos
		}
		return ids, nil
	}

	id, err := transcript.ExtractVideoID(input)
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

// Run processes input and writes the deck if any card was generated.
//
// Only input resolution failures, export failures and cancellation are
// returned as errors. On cancellation the summary gathered so far is returned
// with the error and no deck is written.
func (r *Runner) Run(ctx context.Context, input string) (*Summary, error) {
	videoIDs, err := r.ResolveInput(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("resolve input: %w", err)
	}

	summary := &Summary{
		RunID:  uuid.New(),
		Videos: make([]VideoReport, 0, len(videoIDs)),
	}
	log := r.logger.With("run_id", summary.RunID)
	log.InfoContext(ctx, "Starting run", "videos", len(videoIDs))

	fetched, err := r.prefetch(ctx, videoIDs)
	if err != nil {
		return summary, fmt.Errorf("prefetch transcripts: %w", err)
	}

	for i, videoID := range videoIDs {
		report := VideoReport{VideoID: videoID}

		if fetched[i].err != nil {
			report.SkipReason = fetched[i].err
			summary.Videos = append(summary.Videos, report)
			log.WarnContext(ctx, "Skipping video",
				"video_id", videoID,
				"reason", redact.Error(fetched[i].err))
			continue
		}

		observer := r.observer(ctx, summary.RunID, videoID, i, len(videoIDs))
		result, err := r.generator.Generate(ctx, fetched[i].text, r.opts.Generation, observer)
		if result != nil {
			report.Questions = len(result.Questions)
			report.Batches = result.Plan.NumBatches
			report.FailedBatches = result.Failed()
			summary.Questions = append(summary.Questions, result.Questions...)
		}
		summary.Videos = append(summary.Videos, report)

		if err != nil {
			log.WarnContext(ctx, "Run cancelled",
				"video_id", videoID,
				"questions_generated", len(summary.Questions))
			return summary, fmt.Errorf("generate questions for %s: %w", videoID, err)
		}

		log.InfoContext(ctx, "Video processed",
			"video_id", videoID,
			"questions", report.Questions,
			"failed_batches", report.FailedBatches)
	}

	if summary.NoCards() {
		log.WarnContext(ctx, "No cards were generated",
			"videos", len(videoIDs),
			"skipped", summary.SkippedVideos())
		return summary, nil
	}

	artifacts, err := r.exporter.Export(summary.Questions, r.opts.OutputPath)
	if err != nil {
		return summary, fmt.Errorf("export deck: %w", err)
	}
	summary.Artifacts = artifacts

	log.InfoContext(ctx, "Run finished",
		"cards", len(summary.Questions),
		"skipped", summary.SkippedVideos(),
		"deck_path", artifacts.DeckPath,
		"json_path", artifacts.JSONPath)
	return summary, nil
}

type fetchResult struct {
	text string
	err  error
}

// prefetch fetches every transcript with at most PrefetchConcurrency
// requests in flight. Per-video failures are recorded in the result; only
// cancellation aborts the prefetch.
func (r *Runner) prefetch(ctx context.Context, videoIDs []string) ([]fetchResult, error) {
	results := make([]fetchResult, len(videoIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.PrefetchConcurrency)

	for i, videoID := range videoIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			text, err := r.source.FetchTranscript(gctx, videoID)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
				}
				if !errors.Is(err, transcript.ErrNoTranscript) && !errors.Is(err, transcript.ErrVideoUnavailable) {
					r.logger.WarnContext(gctx, "Transcript fetch failed",
						"video_id", videoID,
						"error", redact.Error(err))
				}
				results[i] = fetchResult{err: err}
				return nil
			}

			results[i] = fetchResult{text: text}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// observer adapts scheduler progress callbacks to progress events.
func (r *Runner) observer(ctx context.Context, runID uuid.UUID, videoID string, index, count int) generation.ProgressObserver {
	return func(completed, total int) {
		event := events.NewProgressEvent(runID, videoID, index, count, completed, total)
		if err := r.emitter.Emit(ctx, event); err != nil {
			r.logger.DebugContext(ctx, "Progress handler error ignored", "error", err)
		}
	}
}

var (
	_ Generator = (*generation.Scheduler)(nil)
	_ Exporter  = (*deck.Exporter)(nil)
)
