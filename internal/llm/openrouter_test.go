package llm

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OpenRouterConfig
		wantErr bool
		model   string
	}{
		{name: "valid", cfg: OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.0-flash-exp"}, model: "google/gemini-2.0-flash-exp"},
		{name: "model passes through", cfg: OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"}, model: "anthropic/claude-3-haiku"},
		{name: "missing key", cfg: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ModelID() != tt.model {
				t.Errorf("model = %q, want %q", p.ModelID(), tt.model)
			}
		})
	}
}

func TestOpenRouterOpenAIConfig_BaseURL(t *testing.T) {
	if got := openRouterOpenAIConfig(OpenRouterConfig{APIKey: "k"}).BaseURL; got != defaultOpenRouterBaseURL {
		t.Errorf("default base URL = %q", got)
	}
	custom := "https://custom.openrouter.example/v1"
	if got := openRouterOpenAIConfig(OpenRouterConfig{APIKey: "k", BaseURL: custom}).BaseURL; got != custom {
		t.Errorf("custom base URL = %q", got)
	}
}

func TestHeaderTransport(t *testing.T) {
	var title, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("X-Title")
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	client := &http.Client{Transport: headerTransport{header: openRouterHeader(), next: http.DefaultTransport}}
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Authorization", "Bearer sk-or-test")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if title != "Parabola" {
		t.Errorf("X-Title = %q", title)
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		t.Errorf("caller headers should be kept, got Authorization %q", auth)
	}
	if req.Header.Get("X-Title") != "" {
		t.Error("transport must not mutate the caller's request")
	}
}
