// Package config loads edugen settings from flags, EDUGEN_* environment
// variables and an optional config file through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/edugen/internal/completion"
)

// Provider names accepted in `provider`.
const (
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"
)

type SamplingConfig struct {
	Temperature float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
}

type PipelineConfig struct {
	StructuralCheck       bool `mapstructure:"structural_check" json:"structural_check"`
	RefineWithoutFeedback bool `mapstructure:"refine_without_feedback" json:"refine_without_feedback"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr" json:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" json:"allowed_origins"`
}

type Config struct {
	Provider   string         `mapstructure:"provider" json:"provider"`
	APIKey     string         `mapstructure:"api_key" json:"-"`
	BaseURL    string         `mapstructure:"base_url" json:"base_url"`
	Model      string         `mapstructure:"model" json:"model"`
	Timeout    time.Duration  `mapstructure:"timeout" json:"timeout"`
	Language   string         `mapstructure:"language" json:"language"`
	LogMode    string         `mapstructure:"log_mode" json:"log_mode"`
	Generation SamplingConfig `mapstructure:"generation" json:"generation"`
	Review     SamplingConfig `mapstructure:"review" json:"review"`
	Pipeline   PipelineConfig `mapstructure:"pipeline" json:"pipeline"`
	Server     ServerConfig   `mapstructure:"server" json:"server"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGroq)
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("model", completion.DefaultModel)
	v.SetDefault("timeout", 120*time.Second)
	v.SetDefault("language", "en")
	v.SetDefault("log_mode", "dev")
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.max_tokens", 2000)
	v.SetDefault("review.temperature", 0.3)
	v.SetDefault("review.max_tokens", 1000)
	v.SetDefault("pipeline.structural_check", false)
	v.SetDefault("pipeline.refine_without_feedback", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
}

// NewViper returns a viper instance with defaults and EDUGEN_ environment
// binding. When configFile is non-empty it is read; a missing default file
// is not an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("edugen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return v, nil
	}

	v.SetConfigName(".edugen")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load decodes v into a Config, filling the API key from the provider's
// conventional environment variable when unset, and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.APIKey == "" {
		cfg.APIKey = providerKey(v, cfg.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func providerKey(v *viper.Viper, provider string) string {
	var env string
	switch provider {
	case ProviderGroq:
		env = "GROQ_API_KEY"
	case ProviderOpenRouter:
		env = "OPENROUTER_API_KEY"
	case ProviderOpenAI:
		env = "OPENAI_API_KEY"
	default:
		return ""
	}
	_ = v.BindEnv("provider_api_key."+provider, env)
	return v.GetString("provider_api_key." + provider)
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderOpenRouter, ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("%s API key required (set --api-key, EDUGEN_API_KEY or the provider's key variable)", c.Provider)
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	for name, s := range map[string]SamplingConfig{"generation": c.Generation, "review": c.Review} {
		if s.Temperature < 0 || s.Temperature > 2 {
			return fmt.Errorf("%s.temperature must be between 0 and 2, got %v", name, s.Temperature)
		}
		if s.MaxTokens <= 0 {
			return fmt.Errorf("%s.max_tokens must be positive, got %d", name, s.MaxTokens)
		}
	}
	return nil
}

// BaseURLFor returns the configured base URL or the provider's default.
func (c *Config) BaseURLFor() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	switch c.Provider {
	case ProviderOpenRouter:
		return completion.OpenRouterBaseURL
	case ProviderOpenAI:
		return completion.OpenAIBaseURL
	case ProviderOllama:
		return "http://localhost:11434"
	default:
		return completion.GroqBaseURL
	}
}

// NewService builds the completion backend described by c.
func (c *Config) NewService() completion.Service {
	if c.Provider == ProviderOllama {
		model := c.Model
		if model == completion.DefaultModel {
			model = completion.DefaultOllamaModel
		}
		return completion.NewOllamaService(c.BaseURLFor(), model, c.Timeout)
	}
	return completion.NewOpenAIService(c.Provider, c.APIKey, c.BaseURLFor(), c.Model, c.Timeout)
}
