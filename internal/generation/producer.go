package generation

import (
	"context"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// BatchProducer defines the interface for generating quiz questions from a
// single transcript chunk. This interface serves as a boundary between the
// scheduling core and external AI/LLM services.
type BatchProducer interface {
	// GenerateBatch asks for up to count questions about chunkText.
	//
	// Implementations may return fewer questions than requested, or none.
	// A returned error means the whole batch is unusable; partial output
	// accompanying an error is ignored by the Scheduler.
	GenerateBatch(ctx context.Context, chunkText string, count int) ([]domain.QuizQuestion, error)
}

// Request is one batch handed to a BatchProducer. It is built by the
// Scheduler loop and discarded once the batch completes.
type Request struct {
	// Index is the 0-based batch position.
	Index int

	// ChunkText is the transcript window for this batch.
	ChunkText string

	// QuestionsRequested is the quota asked of the producer.
	QuestionsRequested int
}

// ProducerFunc adapts an ordinary function to the BatchProducer interface.
type ProducerFunc func(ctx context.Context, chunkText string, count int) ([]domain.QuizQuestion, error)

// GenerateBatch calls f(ctx, chunkText, count).
func (f ProducerFunc) GenerateBatch(
	ctx context.Context,
	chunkText string,
	count int,
) ([]domain.QuizQuestion, error) {
	return f(ctx, chunkText, count)
}

// ProgressObserver receives synchronous progress updates from the Scheduler.
// completed counts batches processed so far out of total. Observers run
// in-line with the batch loop and must return promptly.
type ProgressObserver func(completed, total int)
