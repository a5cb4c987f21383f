package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envPrefix namespaces every setting this package reads.
const envPrefix = "PARABOLA_"

// Config selects a provider and tunes how grading calls are made.
type Config struct {
	// Provider is one of the names in providers, or "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	Retry   RetryConfig
	Grading GradingConfig
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL points the client at an OpenAI-compatible server.
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig shapes the backoff of RetryProvider.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// GradingConfig bounds one explanation grading call.
type GradingConfig struct {
	// Timeout covers the call and its retries.
	Timeout   time.Duration
	MaxTokens int
}

// providerSpec describes where a provider's settings live, both in Config
// and in the environment.
type providerSpec struct {
	name string
	// stdKey is the vendor's own API key variable, used by DiscoverConfig.
	stdKey  string
	key     func(*Config) *string
	model   func(*Config) *string
	baseURL func(*Config) *string
}

// providers is in discovery order.
var providers = []providerSpec{
	{
		name:    "openai",
		stdKey:  "OPENAI_API_KEY",
		key:     func(c *Config) *string { return &c.OpenAI.APIKey },
		model:   func(c *Config) *string { return &c.OpenAI.Model },
		baseURL: func(c *Config) *string { return &c.OpenAI.BaseURL },
	},
	{
		name:   "anthropic",
		stdKey: "ANTHROPIC_API_KEY",
		key:    func(c *Config) *string { return &c.Anthropic.APIKey },
		model:  func(c *Config) *string { return &c.Anthropic.Model },
	},
	{
		name:   "gemini",
		stdKey: "GEMINI_API_KEY",
		key:    func(c *Config) *string { return &c.Gemini.APIKey },
		model:  func(c *Config) *string { return &c.Gemini.Model },
	},
	{
		name:    "openrouter",
		stdKey:  "OPENROUTER_API_KEY",
		key:     func(c *Config) *string { return &c.OpenRouter.APIKey },
		model:   func(c *Config) *string { return &c.OpenRouter.Model },
		baseURL: func(c *Config) *string { return &c.OpenRouter.BaseURL },
	},
}

func lookupProvider(name string) (providerSpec, bool) {
	for _, p := range providers {
		if p.name == name {
			return p, true
		}
	}
	return providerSpec{}, false
}

// env returns PARABOLA_<PROVIDER>_<setting>.
func (p providerSpec) env(setting string) string {
	return envPrefix + strings.ToUpper(p.name) + "_" + setting
}

// DefaultConfig returns the defaults: OpenAI's small vision model, three
// attempts per call and a 30 second grading budget.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Grading: GradingConfig{
			Timeout:   30 * time.Second,
			MaxTokens: 1024,
		},
	}
}

// ConfigFromEnv layers PARABOLA_* variables over DefaultConfig. Unset,
// empty and unparsable values keep the default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setString(&cfg.Provider, envPrefix+"LLM_PROVIDER")
	for _, p := range providers {
		setString(p.key(&cfg), p.env("API_KEY"))
		setString(p.model(&cfg), p.env("MODEL"))
		if p.baseURL != nil {
			setString(p.baseURL(&cfg), p.env("BASE_URL"))
		}
	}
	applyTuning(&cfg)
	return cfg
}

// applyTuning reads the provider-independent settings.
func applyTuning(cfg *Config) {
	if d, err := time.ParseDuration(os.Getenv(envPrefix + "LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Grading.Timeout = d
	}
	if n, err := strconv.Atoi(os.Getenv(envPrefix + "LLM_MAX_TOKENS")); err == nil && n > 0 {
		cfg.Grading.MaxTokens = n
	}
	if n, err := strconv.Atoi(os.Getenv(envPrefix + "LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// DiscoverConfig picks the first provider whose vendor key variable
// (OPENAI_API_KEY and so on) is set. ok is false when none is.
func DiscoverConfig() (cfg Config, ok bool) {
	for _, p := range providers {
		k := os.Getenv(p.stdKey)
		if k == "" {
			continue
		}
		cfg = DefaultConfig()
		cfg.Provider = p.name
		*p.key(&cfg) = k
		applyTuning(&cfg)
		return cfg, true
	}
	return Config{}, false
}

// Resolve prefers explicit PARABOLA_* settings that select a usable
// provider and falls back to DiscoverConfig. ok is false when neither
// yields one; cfg then explains why through Validate.
func Resolve() (cfg Config, ok bool) {
	cfg = ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg, true
	}
	if d, found := DiscoverConfig(); found {
		return d, true
	}
	return cfg, false
}

// Validate reports an unknown provider or a missing API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	p, ok := lookupProvider(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *p.key(&c) == "" {
		return fmt.Errorf("%s is required for the %s provider", p.env("API_KEY"), p.name)
	}
	return nil
}
