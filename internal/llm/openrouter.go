package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible
// endpoint. Model names are passed through untouched.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	return &OpenRouterProvider{OpenAIProvider: newOpenAIProviderRaw(openRouterOpenAIConfig(cfg), openRouterHeader())}, nil
}

func openRouterOpenAIConfig(cfg OpenRouterConfig) OpenAIConfig {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return OpenAIConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: baseURL}
}

// openRouterHeader names the app on OpenRouter's usage dashboard.
func openRouterHeader() http.Header {
	h := http.Header{}
	h.Set("X-Title", "Parabola")
	h.Set("HTTP-Referer", "https://github.com/abhisek/parabola")
	return h
}
