package langchain

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/generation"
	"github.com/phrazzld/scry-deck/internal/prompt"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Producer implements generation.BatchProducer over any langchaingo model.
type Producer struct {
	logger  *slog.Logger
	model   llms.Model
	prompts *prompt.Builder
	retry   generation.RetryPolicy
	timeout time.Duration
}

// NewOpenAIProducer creates a Producer backed by the OpenAI chat API.
func NewOpenAIProducer(logger *slog.Logger, cfg config.LLMConfig, prompts *prompt.Builder) (*Producer, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.ModelName),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create OpenAI client: %v", generation.ErrInvalidConfig, err)
	}

	return NewProducer(logger, llm, cfg, prompts)
}

// NewOllamaProducer creates a Producer backed by a local Ollama server.
func NewOllamaProducer(logger *slog.Logger, cfg config.LLMConfig, prompts *prompt.Builder) (*Producer, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.OllamaServerURL),
		ollama.WithModel(cfg.ModelName),
		ollama.WithFormat("json"),
		ollama.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Ollama client: %v", generation.ErrInvalidConfig, err)
	}

	return NewProducer(logger, llm, cfg, prompts)
}

// NewProducer wraps an existing model.
func NewProducer(
	logger *slog.Logger,
	model llms.Model,
	cfg config.LLMConfig,
	prompts *prompt.Builder,
) (*Producer, error) {
	if logger == nil {
		return nil, generation.ErrNilLogger
	}
	if model == nil {
		return nil, fmt.Errorf("%w: model cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if prompts == nil {
		return nil, fmt.Errorf("%w: prompt builder cannot be nil", generation.ErrInvalidConfig)
	}

	return &Producer{
		logger:  logger.With("component", "langchain_producer", "provider", cfg.Provider, "model", cfg.ModelName),
		model:   model,
		prompts: prompts,
		retry: generation.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		},
		timeout: cfg.RequestTimeout,
	}, nil
}

// GenerateBatch implements generation.BatchProducer.
func (p *Producer) GenerateBatch(
	ctx context.Context,
	chunkText string,
	count int,
) ([]domain.QuizQuestion, error) {
	text, err := p.prompts.Render(chunkText, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt.SystemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	var questions []domain.QuizQuestion
	err = generation.Retry(ctx, p.retry, p.logger, func(ctx context.Context, attempt int) error {
		p.logger.InfoContext(ctx, "Making LLM call", "attempt", attempt)

		raw, err := p.call(ctx, messages)
		if err != nil {
			return err
		}

		questions, err = prompt.ParseQuestions(raw)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "LLM call successful",
		"requested", count,
		"received", len(questions))
	return questions, nil
}

func (p *Producer) call(ctx context.Context, messages []llms.MessageContent) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.model.GenerateContent(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return "", classify(err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}

	choice := resp.Choices[0]
	if choice.StopReason == "content_filter" {
		return "", fmt.Errorf("%w: response stopped by content filter", generation.ErrContentBlocked)
	}
	return choice.Content, nil
}

// statusPattern finds the HTTP status that the OpenAI and Ollama clients put
// in their error text.
var statusPattern = regexp.MustCompile(`(?i)(?:^|status code:?\s*)([1-5]\d{2})\b`)

// classify marks provider errors that will recur on resend as invalid
// configuration so they are not retried.
func classify(err error) error {
	if m := statusPattern.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		if generation.RejectedStatus(code) {
			return fmt.Errorf("%w: llm rejected request with status %d: %w",
				generation.ErrInvalidConfig, code, err)
		}
	}
	return fmt.Errorf("llm call: %w", err)
}

var _ generation.BatchProducer = (*Producer)(nil)
