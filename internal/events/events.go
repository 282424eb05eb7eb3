package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProgressEvent reports that Completed of Total batches have been processed
// for one video of a run.
type ProgressEvent struct {
	// RunID identifies the pipeline run that produced the event
	RunID uuid.UUID `json:"run_id"`

	// VideoID is the YouTube video being processed
	VideoID string `json:"video_id"`

	// VideoIndex is the 0-based position of the video in the run
	VideoIndex int `json:"video_index"`

	// VideoCount is the number of videos in the run
	VideoCount int `json:"video_count"`

	Completed int `json:"completed"`
	Total     int `json:"total"`

	// At is the time the event was created
	At time.Time `json:"at"`
}

// NewProgressEvent creates a ProgressEvent stamped with the current time.
func NewProgressEvent(runID uuid.UUID, videoID string, videoIndex, videoCount, completed, total int) ProgressEvent {
	return ProgressEvent{
		RunID:      runID,
		VideoID:    videoID,
		VideoIndex: videoIndex,
		VideoCount: videoCount,
		Completed:  completed,
		Total:      total,
		At:         time.Now(),
	}
}

// Done reports whether the event marks the end of a video.
func (e ProgressEvent) Done() bool {
	return e.Total > 0 && e.Completed >= e.Total
}

// Fraction returns Completed/Total in [0, 1].
func (e ProgressEvent) Fraction() float64 {
	if e.Total <= 0 {
		return 0
	}
	f := float64(e.Completed) / float64(e.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Handler defines an interface for components that consume progress events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event ProgressEvent) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event ProgressEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event ProgressEvent) error {
	return f(ctx, event)
}
