package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/testhr/llamagate/internal/config"
	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/internal/observability"
	"github.com/testhr/llamagate/pkg/log"
	"github.com/testhr/llamagate/pkg/retry"
)

// Ollama talks to a locally hosted Ollama runtime over its native
// generate API. Transient transport failures are retried with backoff;
// client-side errors are not.
type Ollama struct {
	baseProvider
	retrier *retry.Retrier
	metrics *observability.Metrics
}

func NewOllama(cfg *config.OllamaConfig, metrics *observability.Metrics) *Ollama {
	return &Ollama{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.RequestTimeout),
		retrier:      retry.NewDefaultRetrier(),
		metrics:      metrics,
	}
}

func (o *Ollama) Complete(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	payload := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	if maxTokens > 0 {
		payload["options"] = map[string]any{"num_predict": maxTokens}
	}

	start := time.Now()
	var out string
	err := o.retrier.Do(ctx, func() error {
		resp, err := o.doRequest(ctx, http.MethodPost, "/api/generate", payload)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return retry.Permanent(err)
			}
			return err
		}

		var result struct {
			Response string `json:"response"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return retry.Permanent(fmt.Errorf("decode: %w", err))
		}
		out = result.Response
		return nil
	})

	if o.metrics != nil {
		o.metrics.ObserveCompletion(model, err, time.Since(start))
	}
	if err != nil {
		return "", &core.CompletionError{Model: model, Err: err}
	}

	log.FromCtx(ctx).Debug().
		Str("model", model).
		Dur("latency", time.Since(start)).
		Int("response_len", len(out)).
		Msg("completion call finished")
	return out, nil
}

// Tags lists the model tags installed in the runtime. Used at startup to
// log whether the configured basic/ultra tags are actually present.
func (o *Ollama) Tags(ctx context.Context) ([]string, error) {
	resp, err := o.doRequest(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		tags = append(tags, m.Name)
	}
	return tags, nil
}
