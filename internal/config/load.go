package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SCRY_LLM_PROVIDER.
const EnvPrefix = "SCRY"

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"output":        "deck.output",
	"deck-name":     "deck.name",
	"num-questions": "generation.num_questions",
	"provider":      "llm.provider",
	"model":         "llm.model_name",
	"log-level":     "log.level",
}

// Load configuration from defaults, an optional config file, environment
// variables and, when flags is non-nil, command-line flags. Later sources take
// precedence. Returns a populated Config struct or an error if
// loading/validation fails.
//
// flags may carry "config" (explicit config file path) and "api-key", which
// is routed to the key of the selected provider.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider SDK conventions are honoured as fallbacks.
	if err := v.BindEnv("llm.gemini_api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}
	if err := v.BindEnv("llm.openai_api_key", EnvPrefix+"_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}

	if err := readConfigFile(v, flags); err != nil {
		return nil, err
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	applyAPIKeyFlag(&cfg, flags)

	if cfg.LLM.ModelName == "" {
		cfg.LLM.ModelName = DefaultModelName(cfg.LLM.Provider)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("excludes_json_ext", func(fl validator.FieldLevel) bool {
		return !strings.HasSuffix(strings.ToLower(fl.Field().String()), ".json")
	}); err != nil {
		return fmt.Errorf("config: register validation: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.model_name", "")
	v.SetDefault("llm.ollama_server_url", "http://localhost:11434")
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.request_timeout", "120s")

	v.SetDefault("generation.num_questions", 50)
	v.SetDefault("generation.max_chars_per_chunk", 25000)
	v.SetDefault("generation.questions_per_batch", 5)

	v.SetDefault("transcript.languages", []string{"en"})
	v.SetDefault("transcript.timeout", "30s")
	v.SetDefault("transcript.prefetch_concurrency", 4)

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "168h")

	v.SetDefault("deck.name", "YouTube Quiz")
	v.SetDefault("deck.output", "output.txt")
}

// readConfigFile loads the explicit --config file, or scry.yaml from the
// working directory or $HOME/.config/scry when present.
func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	explicit := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", explicit, err)
		}
		return nil
	}

	v.SetConfigName("scry")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/scry")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read config file: %w", err)
	}
	return nil
}

// applyAPIKeyFlag routes --api-key to the credential of the selected provider.
func applyAPIKeyFlag(cfg *Config, flags *pflag.FlagSet) {
	if flags == nil {
		return
	}
	f := flags.Lookup("api-key")
	if f == nil || !f.Changed || f.Value.String() == "" {
		return
	}

	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		cfg.LLM.OpenAIAPIKey = f.Value.String()
	default:
		cfg.LLM.GeminiAPIKey = f.Value.String()
	}
}
