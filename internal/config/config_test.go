package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valpere/edugen/internal/completion"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GROQ_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY", "EDUGEN_API_KEY", "EDUGEN_PROVIDER"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != ProviderGroq {
		t.Errorf("expected groq provider, got %q", cfg.Provider)
	}
	if cfg.APIKey != "gsk_test" {
		t.Errorf("expected key from GROQ_API_KEY, got %q", cfg.APIKey)
	}
	if cfg.Model != completion.DefaultModel {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
	if cfg.Generation.Temperature != 0.7 || cfg.Generation.MaxTokens != 2000 {
		t.Errorf("unexpected generation sampling %+v", cfg.Generation)
	}
	if cfg.Review.Temperature != 0.3 || cfg.Review.MaxTokens != 1000 {
		t.Errorf("unexpected review sampling %+v", cfg.Review)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("expected 120s timeout, got %v", cfg.Timeout)
	}
	if cfg.Pipeline.StructuralCheck || cfg.Pipeline.RefineWithoutFeedback {
		t.Error("pipeline options must default to off")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected server addr %q", cfg.Server.Addr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDUGEN_PROVIDER", "openrouter")
	t.Setenv("EDUGEN_API_KEY", "or_key")
	t.Setenv("EDUGEN_PIPELINE_STRUCTURAL_CHECK", "true")
	t.Setenv("EDUGEN_GENERATION_TEMPERATURE", "0.9")

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != ProviderOpenRouter {
		t.Errorf("expected openrouter, got %q", cfg.Provider)
	}
	if cfg.APIKey != "or_key" {
		t.Errorf("expected EDUGEN_API_KEY, got %q", cfg.APIKey)
	}
	if !cfg.Pipeline.StructuralCheck {
		t.Error("expected structural check enabled")
	}
	if cfg.Generation.Temperature != 0.9 {
		t.Errorf("expected temperature 0.9, got %v", cfg.Generation.Temperature)
	}
	if cfg.BaseURLFor() != completion.OpenRouterBaseURL {
		t.Errorf("unexpected base URL %q", cfg.BaseURLFor())
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "edugen.yaml")
	data := `provider: ollama
model: qwen2.5:7b
review:
  temperature: 0.1
  max_tokens: 500
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != ProviderOllama {
		t.Errorf("expected ollama, got %q", cfg.Provider)
	}
	if cfg.Review.Temperature != 0.1 || cfg.Review.MaxTokens != 500 {
		t.Errorf("unexpected review sampling %+v", cfg.Review)
	}
	if cfg.Generation.MaxTokens != 2000 {
		t.Errorf("generation defaults must survive partial file, got %+v", cfg.Generation)
	}
	svc, ok := cfg.NewService().(*completion.OllamaService)
	if !ok {
		t.Fatal("expected an Ollama backend")
	}
	if svc.Model() != "qwen2.5:7b" {
		t.Errorf("expected configured model, got %q", svc.Model())
	}
}

func TestNewService_OllamaDefaultModel(t *testing.T) {
	cfg := Config{Provider: ProviderOllama, Model: completion.DefaultModel}

	svc, ok := cfg.NewService().(*completion.OllamaService)
	if !ok {
		t.Fatal("expected an Ollama backend")
	}
	if svc.Model() != completion.DefaultOllamaModel {
		t.Errorf("expected %q, got %q", completion.DefaultOllamaModel, svc.Model())
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	if _, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Provider:   ProviderGroq,
			APIKey:     "k",
			Generation: SamplingConfig{Temperature: 0.7, MaxTokens: 2000},
			Review:     SamplingConfig{Temperature: 0.3, MaxTokens: 1000},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing key", func(c *Config) { c.APIKey = "" }, "API key required"},
		{"ollama needs no key", func(c *Config) { c.Provider = ProviderOllama; c.APIKey = "" }, ""},
		{"unknown provider", func(c *Config) { c.Provider = "bard" }, "unknown provider"},
		{"temperature too high", func(c *Config) { c.Generation.Temperature = 2.5 }, "generation.temperature"},
		{"negative temperature", func(c *Config) { c.Review.Temperature = -0.1 }, "review.temperature"},
		{"zero max tokens", func(c *Config) { c.Review.MaxTokens = 0 }, "review.max_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
