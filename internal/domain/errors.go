// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyQuestion is returned when a question has no prompt text.
	ErrEmptyQuestion = errors.New("question text cannot be empty")

	// ErrEmptyAnswer is returned when a question has no answer text.
	ErrEmptyAnswer = errors.New("answer cannot be empty")

	// ErrOptionCount is returned when a question does not carry exactly
	// QuestionOptionCount options.
	ErrOptionCount = errors.New("question must have exactly 4 options")

	// ErrEmptyOption is returned when one of the options is blank.
	ErrEmptyOption = errors.New("question options cannot be empty")

	// ErrAnswerNotInOptions is returned when the answer is not one of the options.
	ErrAnswerNotInOptions = errors.New("answer must be one of the options")
)
