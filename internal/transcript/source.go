package transcript

import "context"

// Source fetches the plain-text transcript of a single video.
type Source interface {
	// FetchTranscript returns the transcript text for videoID. It returns
	// ErrNoTranscript when the video has no usable captions.
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(ctx context.Context, videoID string) (string, error)

// FetchTranscript calls f(ctx, videoID).
func (f SourceFunc) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	return f(ctx, videoID)
}
