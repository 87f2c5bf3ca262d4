package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

type Ollama struct {
	BaseURL string
	Model   string

	client *http.Client
	log    logrus.FieldLogger
}

func NewOllama(baseURL, model string, client *http.Client, log logrus.FieldLogger) *Ollama {
	if client == nil {
		client = http.DefaultClient
	}
	return &Ollama{
		BaseURL: baseURL,
		Model:   model,
		client:  client,
		log:     log.WithField("module", "llm.ollama"),
	}
}

// Invoke calls /api/generate without streaming and returns the decoded
// "response" value as-is.
func (o *Ollama) Invoke(ctx context.Context, prompt string) (any, error) {
	reqData := map[string]any{
		"model":  o.Model,
		"prompt": prompt,
		"stream": false,
	}
	payload, err := json.Marshal(reqData)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama error: status %d (check if model '%s' is pulled): %s", resp.StatusCode, o.Model, body)
	}

	var ollamaResp struct {
		Response any `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	o.log.WithField("prompt_len", len(prompt)).Debugf("LLM response: %v", ollamaResp.Response)
	return ollamaResp.Response, nil
}
