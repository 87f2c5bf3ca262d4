package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// EnsureModel makes sure the Ollama host has the model, pulling it when it is
// missing and waiting up to maxWait for it to appear in /api/tags.
func EnsureModel(ctx context.Context, client *http.Client, host, model string, maxWait time.Duration, log logrus.FieldLogger) error {
	log = log.WithFields(logrus.Fields{"host": host, "model": model})
	log.Info("checking ollama model")

	ok, err := hasModel(ctx, client, host, model)
	if err != nil {
		return err
	}
	if ok {
		log.Info("model already loaded in ollama")
		return nil
	}

	log.Warn("model not found, starting pull")
	if err := pullModel(ctx, client, host, model); err != nil {
		return err
	}

	op := func() error {
		ok, err := hasModel(ctx, client, host, model)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("model not listed yet")
		}
		return nil
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("wait for model %s: %w", model, err)
	}
	log.Info("model pulled")
	return nil
}

func hasModel(ctx context.Context, client *http.Client, host, model string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/api/tags", nil)
	if err != nil {
		return false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to connect to ollama: %w", err)
	}
	defer resp.Body.Close()

	var tagsResp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
		return false, fmt.Errorf("decode tags: %w", err)
	}
	for _, m := range tagsResp.Models {
		if m.Name == model || m.Name == model+":latest" {
			return true, nil
		}
	}
	return false, nil
}

func pullModel(ctx context.Context, client *http.Client, host, model string) error {
	payload, _ := json.Marshal(map[string]any{"name": model, "stream": false})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+"/api/pull", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to trigger pull: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pull failed with status: %d", resp.StatusCode)
	}
	return nil
}
