package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/testhr/llamagate/internal/config"
	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/internal/httpapi"
	"github.com/testhr/llamagate/internal/observability"
	"github.com/testhr/llamagate/internal/providers/llm"
	"github.com/testhr/llamagate/internal/service/account"
	"github.com/testhr/llamagate/internal/service/extract"
	"github.com/testhr/llamagate/internal/service/generate"
	"github.com/testhr/llamagate/internal/service/memory"
	"github.com/testhr/llamagate/internal/service/quality"
	"github.com/testhr/llamagate/internal/storage/sqlite"
	"github.com/testhr/llamagate/pkg/log"
	"github.com/testhr/llamagate/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	initEnv(ctx)

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	ollamaCfg := config.NewOllamaConfig(ctx)

	// 2. Observability
	metrics := observability.NewMetrics(core.ServiceName)

	// 3. Storage
	db, err := sqlite.NewDB(ctx, appCfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	history := sqlite.NewHistory(db)
	users := sqlite.NewUsers(db)

	// 4. Completion provider
	ollama := llm.NewOllama(ollamaCfg, metrics)
	logInstalledModels(ctx, ollama, ollamaCfg)

	// 5. Memory tiers
	cache := memory.NewCache(appCfg.MaxCachedSessions, appCfg.SessionWindowSize)
	composer := memory.NewComposer(cache, history,
		appCfg.SessionHistoryLimit, appCfg.SameDayHistoryLimit, appCfg.MaxContextTokens, metrics)

	// 6. Quality gate
	gate := quality.NewGate(ollama, appCfg.MaxListRetries, appCfg.MaxEchoRetries, metrics)

	// 7. Domain services
	generator := generate.NewService(ollamaCfg, extract.New(), composer, ollama, gate, cache, history, metrics)
	accounts := account.NewService(users, appCfg.AllowedUsers)

	// 8. HTTP transport
	services = append(services, httpapi.NewServer(appCfg.ListenAddr, generator, accounts))

	return services
}

// logInstalledModels reports whether the configured model tags are
// actually present in the runtime. Best-effort: an unreachable runtime
// is logged, not fatal, since it may come up after us.
func logInstalledModels(ctx context.Context, ollama *llm.Ollama, cfg *config.OllamaConfig) {
	logger := log.FromCtx(ctx)

	tags, err := ollama.Tags(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("completion runtime not reachable at startup")
		return
	}

	installed := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		installed[tag] = struct{}{}
	}
	for _, model := range []string{cfg.BasicModel, cfg.UltraModel} {
		if _, ok := installed[model]; !ok {
			logger.Warn().Str("model", model).Msg("configured model tag not installed in runtime")
		}
	}
	logger.Info().Strs("tags", tags).Msg("completion runtime models")
}

func initEnv(ctx context.Context) {
	logger := log.FromCtx(ctx)

	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env file")
		return
	}
	logger.Debug().Msg("loaded .env file")
}
