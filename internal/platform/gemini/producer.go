package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/generation"
	"github.com/phrazzld/scry-deck/internal/prompt"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by Producer.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Producer implements generation.BatchProducer using Google's Gemini API.
type Producer struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// prompts renders the request text for each batch
	prompts *prompt.Builder

	// models issues GenerateContent calls
	models contentGenerator

	retry generation.RetryPolicy
}

// NewProducer creates a Producer backed by a Gemini API client.
func NewProducer(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	prompts *prompt.Builder,
) (*Producer, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newProducer(logger, cfg, prompts, client.Models)
}

func newProducer(
	logger *slog.Logger,
	cfg config.LLMConfig,
	prompts *prompt.Builder,
	models contentGenerator,
) (*Producer, error) {
	if logger == nil {
		return nil, generation.ErrNilLogger
	}
	if cfg.ModelName == "" {
		return nil, ErrMissingModel
	}
	if prompts == nil {
		return nil, fmt.Errorf("%w: prompt builder cannot be nil", generation.ErrInvalidConfig)
	}

	return &Producer{
		logger:  logger.With("component", "gemini_producer", "model", cfg.ModelName),
		config:  cfg,
		prompts: prompts,
		models:  models,
		retry: generation.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		},
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

	p.logger.DebugContext(ctx, "Prompt generated successfully",
		"template_name", p.prompts.Name(),
		"prompt_length", len(text),
		"requested", count)

	var questions []domain.QuizQuestion
	err = generation.Retry(ctx, p.retry, p.logger, func(ctx context.Context, attempt int) error {
		p.logger.InfoContext(ctx, "Making Gemini API call", "attempt", attempt)

		raw, err := p.call(ctx, text)
		if err != nil {
			return err
		}

		questions, err = prompt.ParseQuestions(raw)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "Gemini API call successful",
		"requested", count,
		"received", len(questions))
	return questions, nil
}

// call performs one bounded GenerateContent request and returns the response text.
func (p *Producer) call(ctx context.Context, text string) (string, error) {
	if p.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.RequestTimeout)
		defer cancel()
	}

	resp, err := p.models.GenerateContent(ctx, p.config.ModelName, genai.Text(text), requestConfig())
	if err != nil {
		return "", classify(err)
	}

	return responseText(resp)
}

// classify marks API errors the service will keep returning as invalid
// configuration so they are not retried.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && generation.RejectedStatus(apiErr.Code) {
		return fmt.Errorf("%w: gemini API rejected request with status %d: %w",
			generation.ErrInvalidConfig, apiErr.Code, err)
	}
	return fmt.Errorf("gemini API call: %w", err)
}

// responseText validates resp and concatenates the text parts of its first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

func requestConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt.SystemInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}
}

// responseSchema mirrors prompt.ResponseSchema.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"questions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {Type: genai.TypeString},
					"answer":   {Type: genai.TypeString},
					"options": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
				},
				Required: []string{"question", "answer", "options"},
			},
		},
	},
	Required: []string{"questions"},
}

var _ generation.BatchProducer = (*Producer)(nil)
