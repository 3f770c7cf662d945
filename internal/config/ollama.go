package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/testhr/llamagate/pkg/log"
)

// OllamaConfig addresses the local completion runtime and maps the
// friendly model names exposed to clients onto backing model tags.
type OllamaConfig struct {
	BaseURL        string        `env:"OLLAMA_BASE_URL" envDefault:"http://127.0.0.1:11434"`
	APIKey         string        `env:"OLLAMA_API_KEY"`
	BasicModel     string        `env:"OLLAMA_BASIC_MODEL" envDefault:"llama3:8b"`
	UltraModel     string        `env:"OLLAMA_ULTRA_MODEL" envDefault:"llama3:70b"`
	RequestTimeout time.Duration `env:"OLLAMA_REQUEST_TIMEOUT" envDefault:"120s"`
}

func NewOllamaConfig(ctx context.Context) *OllamaConfig {
	c := &OllamaConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Ollama config")
	}
	return c
}

// FriendlyModels returns the accepted friendly names in a stable order.
func (c *OllamaConfig) FriendlyModels() []string {
	return []string{"basic", "ultra"}
}

// ResolveModel maps a friendly name onto its backing model tag.
func (c *OllamaConfig) ResolveModel(friendly string) (string, bool) {
	switch friendly {
	case "basic":
		return c.BasicModel, true
	case "ultra":
		return c.UltraModel, true
	default:
		return "", false
	}
}
