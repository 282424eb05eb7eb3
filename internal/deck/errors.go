package deck

import "errors"

var (
	// ErrNoQuestions is returned when there is nothing to export.
	ErrNoQuestions = errors.New("no questions to export")

	// ErrInvalidOutputPath is returned when the deck path would collide with
	// its JSON mirror.
	ErrInvalidOutputPath = errors.New("invalid deck output path")
)
