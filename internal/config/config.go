package config

import "time"

// Supported LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log        LogConfig        `mapstructure:"log" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Transcript TranscriptConfig `mapstructure:"transcript" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Deck       DeckConfig       `mapstructure:"deck" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider     string `mapstructure:"provider" validate:"required,oneof=gemini openai ollama"`
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	OpenAIAPIKey string `mapstructure:"openai_api_key" validate:"required_if=Provider openai"`

	// ModelName defaults per provider when empty; see DefaultModelName.
	ModelName       string `mapstructure:"model_name"`
	OllamaServerURL string `mapstructure:"ollama_server_url" validate:"omitempty,url"`

	// PromptTemplatePath overrides the built-in quiz prompt.
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"omitempty,file"`

	MaxRetries        int           `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// GenerationConfig controls how transcripts are batched.
type GenerationConfig struct {
	NumQuestions      int `mapstructure:"num_questions" validate:"gte=0"`
	MaxCharsPerChunk  int `mapstructure:"max_chars_per_chunk" validate:"gt=0"`
	QuestionsPerBatch int `mapstructure:"questions_per_batch" validate:"gt=0"`
}

// TranscriptConfig controls caption retrieval.
type TranscriptConfig struct {
	// Languages lists preferred caption languages, most preferred first.
	Languages           []string      `mapstructure:"languages" validate:"min=1,dive,required"`
	Timeout             time.Duration `mapstructure:"timeout" validate:"gt=0"`
	PrefetchConcurrency int           `mapstructure:"prefetch_concurrency" validate:"gte=1"`
}

// CacheConfig configures the optional Redis transcript cache.
type CacheConfig struct {
	// RedisURL disables caching when empty.
	RedisURL string        `mapstructure:"redis_url" validate:"omitempty,url"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisURL != ""
}

// DeckConfig contains export settings.
type DeckConfig struct {
	Name   string `mapstructure:"name" validate:"required"`
	Output string `mapstructure:"output" validate:"required,excludes_json_ext"`
}

// DefaultModelName returns the model used for provider when none is configured.
func DefaultModelName(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "llama3.1"
	default:
		return "gemini-2.0-flash"
	}
}
