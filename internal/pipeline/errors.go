package pipeline

import "errors"

var (
	ErrNilResolver  = errors.New("playlist resolver cannot be nil")
	ErrNilSource    = errors.New("transcript source cannot be nil")
	ErrNilGenerator = errors.New("generator cannot be nil")
	ErrNilExporter  = errors.New("exporter cannot be nil")
	ErrNilEmitter   = errors.New("emitter cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")

	// ErrNoVideos is returned when the input resolves to no video IDs.
	ErrNoVideos = errors.New("no videos found to process")
)
