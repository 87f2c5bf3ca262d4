package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"yt-insights-go/internal/config"
)

// Model sends one prompt and returns the raw response payload. The payload is
// normally a string but backends pass through whatever the endpoint produced;
// use Text to read it.
type Model interface {
	Invoke(ctx context.Context, prompt string) (any, error)
}

// New selects the backend named by the configuration.
func New(cfg config.Config, httpClient *http.Client, log logrus.FieldLogger) (Model, error) {
	if cfg.UseMockLLM {
		return Mock{}, nil
	}
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaHost, cfg.OllamaModel, httpClient, log), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.LLMAPIBase, cfg.LLMAPIKey, cfg.LLMModel, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// Text extracts the text of a model response: either a plain string or an
// object exposing a string "text" field.
func Text(resp any) (string, bool) {
	switch v := resp.(type) {
	case string:
		return strings.TrimSpace(v), true
	case map[string]any:
		if s, ok := v["text"].(string); ok {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}
