// Package prompt builds the LLM request text for one transcript batch and
// decodes the JSON question list the model sends back. Every producer
// (Gemini, OpenAI, Ollama) shares it so they all speak the same contract.
package prompt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"text/template"

	"github.com/phrazzld/scry-deck/internal/generation"
)

// SystemInstruction is sent as the system message where the provider supports one.
const SystemInstruction = "You are a helpful assistant that generates quiz questions."

//go:embed templates/quiz.tmpl
var defaultTemplate string

// ErrEmptyChunk is returned when Render is asked to build a prompt for blank text.
var ErrEmptyChunk = errors.New("transcript chunk cannot be empty")

// data is the value passed to the template.
type data struct {
	Transcript string
	Count      int
}

// Builder renders batch prompts from a parsed template.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder parses the template at path, or the built-in quiz template when
// path is empty. Read and parse failures are reported as
// generation.ErrInvalidConfig.
func NewBuilder(path string) (*Builder, error) {
	content := defaultTemplate
	name := "quiz"

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(raw)
		name = path
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Builder{tmpl: tmpl}, nil
}

// Render executes the template for one batch asking for count questions.
func (b *Builder) Render(chunk string, count int) (string, error) {
	if chunk == "" {
		return "", ErrEmptyChunk
	}
	if count <= 0 {
		return "", fmt.Errorf("question count must be positive, got %d", count)
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data{Transcript: chunk, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// Name returns the template name, for logging.
func (b *Builder) Name() string {
	return b.tmpl.Name()
}
