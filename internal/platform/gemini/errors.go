package gemini

import (
	"fmt"

	"github.com/phrazzld/scry-deck/internal/generation"
)

// Error definitions for the gemini package. Each wraps generation.ErrInvalidConfig.
var (
	// ErrMissingAPIKey is returned when no Gemini API key is configured.
	ErrMissingAPIKey = fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)

	// ErrMissingModel is returned when no model name is configured.
	ErrMissingModel = fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
)
