package transcript

import "errors"

// Common errors returned by the transcript package
var (
	// ErrInvalidVideoURL is returned when no video ID can be extracted from the input
	ErrInvalidVideoURL = errors.New("invalid YouTube video URL")

	// ErrEmptyPlaylist is returned when a playlist resolves to no videos
	ErrEmptyPlaylist = errors.New("playlist contains no videos")

	// ErrNoTranscript is returned when a video has no usable caption track
	ErrNoTranscript = errors.New("no transcript available for video")

	// ErrVideoUnavailable is returned when the watch page carries no player data
	ErrVideoUnavailable = errors.New("video unavailable")
)
