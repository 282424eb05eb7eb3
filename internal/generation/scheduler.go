package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/redact"
)

// BatchReport records what happened to one batch of a Generate call.
type BatchReport struct {
	// Index is the 0-based batch position.
	Index int `json:"index"`

	// Requested is the number of questions asked of the producer.
	Requested int `json:"requested"`

	// Received is the number of valid questions kept from the producer.
	Received int `json:"received"`

	// Skipped is true when the window was blank and the producer was not called.
	Skipped bool `json:"skipped"`

	// Err holds the producer failure, if any.
	Err error `json:"-"`
}

// Result is the outcome of one Generate call.
type Result struct {
	// Questions holds every accepted question in batch order.
	Questions []domain.QuizQuestion

	// Plan is the batch plan that was used.
	Plan Plan

	// Batches has one entry per batch that was reached before the loop ended.
	Batches []BatchReport
}

// Failed returns the number of batches whose producer call failed.
func (r *Result) Failed() int {
	n := 0
	for _, b := range r.Batches {
		if b.Err != nil {
			n++
		}
	}
	return n
}

// Attempted returns the number of batches for which the producer was called.
func (r *Result) Attempted() int {
	n := 0
	for _, b := range r.Batches {
		if !b.Skipped {
			n++
		}
	}
	return n
}

// maxPrealloc bounds up-front slice capacity; targets are caller-controlled.
const maxPrealloc = 1024

// Scheduler partitions transcripts into batches and drives a BatchProducer
// over them sequentially.
type Scheduler struct {
	producer BatchProducer
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler backed by producer.
func NewScheduler(producer BatchProducer, logger *slog.Logger) (*Scheduler, error) {
	if producer == nil {
		return nil, ErrNilProducer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Scheduler{
		producer: producer,
		logger:   logger.With("component", "batch_scheduler"),
	}, nil
}

// Generate produces up to opts.TargetQuestions questions from transcript.
//
// Batches run one at a time in document order. Before batch i the observer,
// if any, is called with (i, NumBatches); when the loop finishes, including
// when the target is met early, it is called with (NumBatches, NumBatches).
//
// A failing batch never aborts the run: its error is logged, recorded in the
// result and counted as zero questions. A run in which every batch fails
// returns an empty result and a nil error.
//
// The only errors returned are invalid options and context cancellation. On
// cancellation the partial result gathered so far is returned alongside the
// context error.
func (s *Scheduler) Generate(
	ctx context.Context,
	transcript string,
	opts Options,
	observer ProgressObserver,
) (*Result, error) {
	runes := []rune(transcript)
	totalChars := len(runes)
	plan, err := NewPlan(totalChars, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Questions: make([]domain.QuizQuestion, 0, min(opts.TargetQuestions, maxPrealloc)),
		Plan:      plan,
		Batches:   make([]BatchReport, 0, min(plan.NumBatches, maxPrealloc)),
	}

	s.logger.InfoContext(ctx, "Starting batch generation",
		"transcript_chars", totalChars,
		"target_questions", opts.TargetQuestions,
		"num_batches", plan.NumBatches,
		"chunk_size", plan.ChunkSize)

	generated := 0

	for i := 0; i < plan.NumBatches; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.WarnContext(ctx, "Batch generation cancelled",
				"completed_batches", i,
				"questions_generated", generated,
				"error", err)
			return result, fmt.Errorf("batch generation cancelled after %d of %d batches: %w",
				i, plan.NumBatches, err)
		}

		notify(observer, i, plan.NumBatches)

		ask := plan.Quota(i, opts.TargetQuestions, generated)
		if ask <= 0 {
			s.logger.DebugContext(ctx, "Target question count reached, stopping early",
				"batch", i,
				"questions_generated", generated)
			break
		}

		req := Request{Index: i, ChunkText: plan.window(runes, i), QuestionsRequested: ask}
		report := BatchReport{Index: i, Requested: ask}

		if strings.TrimSpace(req.ChunkText) == "" {
			report.Skipped = true
			result.Batches = append(result.Batches, report)
			s.logger.DebugContext(ctx, "Skipping blank batch", "batch", i)
			continue
		}

		questions, err := s.producer.GenerateBatch(ctx, req.ChunkText, req.QuestionsRequested)
		if err != nil {
			report.Err = err
			result.Batches = append(result.Batches, report)
			s.logger.ErrorContext(ctx, "Batch generation failed, continuing with next batch",
				"batch", i,
				"requested", ask,
				"error", redact.Error(err))
			continue
		}

		accepted := s.acceptValid(ctx, i, questions)
		result.Questions = append(result.Questions, accepted...)
		generated += len(accepted)

		report.Received = len(accepted)
		result.Batches = append(result.Batches, report)

		s.logger.DebugContext(ctx, "Batch completed",
			"batch", i,
			"requested", ask,
			"received", len(accepted),
			"questions_generated", generated)
	}

	notify(observer, plan.NumBatches, plan.NumBatches)

	s.logger.InfoContext(ctx, "Batch generation finished",
		"questions_generated", generated,
		"batches_attempted", result.Attempted(),
		"batches_failed", result.Failed())

	return result, nil
}

// acceptValid drops questions that break the domain invariants and returns
// the normalized remainder in producer order.
func (s *Scheduler) acceptValid(ctx context.Context, batch int, questions []domain.QuizQuestion) []domain.QuizQuestion {
	accepted := make([]domain.QuizQuestion, 0, len(questions))
	for j, q := range questions {
		if err := q.Validate(); err != nil {
			s.logger.WarnContext(ctx, "Discarding invalid question",
				"batch", batch,
				"position", j,
				"error", err)
			continue
		}
		accepted = append(accepted, q.Normalized())
	}
	return accepted
}

func notify(observer ProgressObserver, completed, total int) {
	if observer != nil {
		observer(completed, total)
	}
}
