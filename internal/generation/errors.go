package generation

import (
	"errors"
	"net/http"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when question generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate questions from text")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during question generation")

	// ErrInvalidConfig is returned when the producer configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrInvalidOptions is returned when scheduler options violate their preconditions
	ErrInvalidOptions = errors.New("invalid scheduling options")

	// ErrNilProducer is returned when a Scheduler is built without a producer
	ErrNilProducer = errors.New("batch producer cannot be nil")

	// ErrNilLogger is returned when a component is built without a logger
	ErrNilLogger = errors.New("logger cannot be nil")
)

// IsPermanent reports whether err is a failure that retrying the same
// request cannot fix.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, ErrInvalidConfig)
}

// RejectedStatus reports whether an HTTP status from a provider means the
// request itself was refused, so resending it unchanged cannot succeed.
// Rate limiting and server errors are not rejections.
func RejectedStatus(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	default:
		return false
	}
}
