package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/testhr/llamagate/pkg/log"
)

type AppConfig struct {
	ListenAddr   string `env:"LLAMAGATE_LISTEN_ADDR" envDefault:":8000"`
	DatabasePath string `env:"LLAMAGATE_DB_PATH" envDefault:"chat_history.db"`

	// Memory tiers
	SessionWindowSize   int `env:"SESSION_WINDOW_SIZE" envDefault:"10"`
	SessionHistoryLimit int `env:"SESSION_HISTORY_LIMIT" envDefault:"5"`
	SameDayHistoryLimit int `env:"SAME_DAY_HISTORY_LIMIT" envDefault:"50"`
	MaxCachedSessions   int `env:"MAX_CACHED_SESSIONS" envDefault:"1024"`

	// Prompt budget, approximated as 4 characters per token.
	MaxContextTokens int `env:"MAX_CONTEXT_TOKENS" envDefault:"1000"`

	// Quality-gate regeneration caps, per failure category.
	MaxListRetries int `env:"MAX_LIST_RETRIES" envDefault:"1"`
	MaxEchoRetries int `env:"MAX_ECHO_RETRIES" envDefault:"1"`

	// Accounts
	AllowedUsers []string `env:"ALLOWED_USERS" envDefault:"roberto,pablo,shafeena"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}
