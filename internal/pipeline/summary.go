package pipeline

import (
	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/deck"
	"github.com/phrazzld/scry-deck/internal/domain"
)

// VideoReport describes the outcome for one video of a run.
type VideoReport struct {
	VideoID string

	// Questions is the number of cards accepted for this video.
	Questions int

	// Batches and FailedBatches come from the scheduler result.
	Batches       int
	FailedBatches int

	// SkipReason is set when the video was skipped before generation.
	SkipReason error
}

// Skipped reports whether the video was skipped.
func (v VideoReport) Skipped() bool {
	return v.SkipReason != nil
}

// Summary is the outcome of one Run.
type Summary struct {
	RunID uuid.UUID

	// Videos has one report per resolved video, in input order.
	Videos []VideoReport

	// Questions holds every accepted card, grouped by video in input order.
	Questions []domain.QuizQuestion

	// Artifacts is nil when no deck was written.
	Artifacts *deck.Artifacts
}

// NoCards reports whether the run finished without producing any card.
func (s *Summary) NoCards() bool {
	return len(s.Questions) == 0
}

// SkippedVideos returns the number of videos skipped for lack of a transcript.
func (s *Summary) SkippedVideos() int {
	n := 0
	for _, v := range s.Videos {
		if v.Skipped() {
			n++
		}
	}
	return n
}
