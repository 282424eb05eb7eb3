package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/scry-deck/internal/cache"
	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/deck"
	"github.com/phrazzld/scry-deck/internal/events"
	"github.com/phrazzld/scry-deck/internal/generation"
	"github.com/phrazzld/scry-deck/internal/pipeline"
	"github.com/phrazzld/scry-deck/internal/platform/gemini"
	"github.com/phrazzld/scry-deck/internal/platform/langchain"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/prompt"
	"github.com/phrazzld/scry-deck/internal/redact"
	"github.com/phrazzld/scry-deck/internal/transcript"
	"github.com/spf13/pflag"
)

// application holds the wired components of one invocation.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	runner  *pipeline.Runner
	closers []func() error
}

// run loads configuration, wires the pipeline and processes input.
func run(ctx context.Context, flags *pflag.FlagSet, input string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The progress line is drawn only on a terminal; redirected stderr gets
	// log records alone.
	logOut := stderr
	var handlers []events.Handler
	if isTerminal(stderr) {
		progress := newTerminalProgress(stderr)
		logOut = progress
		handlers = append(handlers, progress)
	}

	log, err := logger.Setup(cfg.Log, logOut)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	app, err := newApplication(ctx, cfg, log, handlers...)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, err := app.runner.Run(ctx, input)
	if err != nil {
		return err
	}

	printSummary(stdout, summary)
	return nil
}

// newApplication wires every component from cfg. Extra progress handlers are
// registered after the structured-log handler.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	progress ...events.Handler,
) (*application, error) {
	app := &application{config: cfg, logger: log}

	log.Info("Configuration loaded",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.ModelName,
		"num_questions", cfg.Generation.NumQuestions,
		"max_chars_per_chunk", cfg.Generation.MaxCharsPerChunk,
		"questions_per_batch", cfg.Generation.QuestionsPerBatch,
		"cache_enabled", cfg.Cache.Enabled())

	prompts, err := prompt.NewBuilder(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	producer, err := newProducer(ctx, log, cfg.LLM, prompts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s producer: %w", cfg.LLM.Provider, err)
	}

	scheduler, err := generation.NewScheduler(producer, log)
	if err != nil {
		return nil, err
	}

	source := app.newSource(ctx, cfg, log)

	emitter := events.NewEmitter(log)
	emitter.Register(events.NewLogHandler(log))
	for _, h := range progress {
		emitter.Register(h)
	}

	app.runner, err = pipeline.NewRunner(
		transcript.NewPlaylists(log, nil),
		source,
		scheduler,
		deck.NewExporter(cfg.Deck.Name, log),
		emitter,
		pipeline.Options{
			Generation: generation.Options{
				TargetQuestions:   cfg.Generation.NumQuestions,
				MaxCharsPerChunk:  cfg.Generation.MaxCharsPerChunk,
				QuestionsPerBatch: cfg.Generation.QuestionsPerBatch,
			},
			OutputPath:          cfg.Deck.Output,
			PrefetchConcurrency: cfg.Transcript.PrefetchConcurrency,
		},
		log,
	)
	if err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// newProducer selects the batch producer for the configured provider.
func newProducer(
	ctx context.Context,
	log *slog.Logger,
	cfg config.LLMConfig,
	prompts *prompt.Builder,
) (generation.BatchProducer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.NewProducer(ctx, log, cfg, prompts)
	case config.ProviderOpenAI:
		return langchain.NewOpenAIProducer(log, cfg, prompts)
	case config.ProviderOllama:
		return langchain.NewOllamaProducer(log, cfg, prompts)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// newSource builds the YouTube transcript source, wrapped in the Redis cache
// when one is configured and reachable. An unreachable cache is logged and
// the run continues uncached.
func (a *application) newSource(ctx context.Context, cfg *config.Config, log *slog.Logger) transcript.Source {
	var source transcript.Source = transcript.NewYouTubeSource(log, cfg.Transcript.Languages, cfg.Transcript.Timeout)

	if !cfg.Cache.Enabled() {
		return source
	}

	client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
	if err != nil {
		log.Warn("Transcript cache unavailable, continuing without it",
			"error", redact.Error(err))
		return source
	}

	store := cache.NewRedisCache(client)
	a.closers = append(a.closers, store.Close)
	log.Info("Transcript cache enabled", "ttl", cfg.Cache.TTL)

	return transcript.NewCachedSource(source, store, cfg.Cache.TTL, cfg.Transcript.Languages, log)
}

// Close releases resources held by the application.
func (a *application) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("Failed to release resource", "error", err)
		}
	}
	a.closers = nil
}
