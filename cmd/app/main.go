package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aiblty-platform/internal/config"
	"aiblty-platform/internal/domain/ports/adapter"
	aiAdapters "aiblty-platform/internal/infra/adapters/ai"
	pg "aiblty-platform/internal/infra/db/postgres"
	"aiblty-platform/internal/infra/logging"
	"aiblty-platform/internal/infra/metrics"
	red "aiblty-platform/internal/infra/redis"
	"aiblty-platform/internal/infra/web"
	"aiblty-platform/internal/infra/worker"
	"aiblty-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop AI fallback, relaxed auth checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	usageCounter := red.NewUsageCounter(redisClient)

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	jobRepo := pg.NewJobRepo(pool, tm)
	artifactRepo := pg.NewArtifactRepo(pool)
	conversationRepo := pg.NewConversationRepo(pool)
	eventLogRepo := pg.NewEventLogRepo(pool)

	// ---- AI gateway (AIBLTY -> OpenAI -> Gemini -> noop) ----
	var ai adapter.CompletionGateway
	switch {
	case cfg.AI.GatewayKey != "":
		ai, err = aiAdapters.NewGatewayAdapter(cfg.AI.GatewayKey, cfg.AI.GatewayBaseURL, cfg.AI.DefaultModel,
			cfg.AI.ModeModels, cfg.AI.MaxTokens, cfg.AI.Temperature)
		if err != nil {
			logger.Fatal().Err(err).Msg("gateway adapter")
		}
		logger.Info().Str("base", cfg.AI.GatewayBaseURL).Str("model", cfg.AI.DefaultModel).Msg("AI adapter: hosted gateway")
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel,
			cfg.AI.ModeModels, cfg.AI.MaxTokens, cfg.AI.Temperature)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel,
			cfg.AI.ModeModels, cfg.AI.MaxTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopGateway()
		logger.Warn().Msg("AI adapter: noop (dev)")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.gateway_key, ai.openai_key or ai.gemini_key in %s", *cfgPath)
	}
	ai = aiAdapters.NewLimitedGateway(ai, cfg.AI.ConcurrentLimit)

	// ---- Use cases ----
	usageUC := usecase.NewUsageUseCase(usageCounter, cfg.Usage.DailyTokenLimit, cfg.Usage.Plan, logger)
	runUC := usecase.NewRunUseCase(jobRepo, artifactRepo, eventLogRepo, ai, usageUC, logger)
	jobsUC := usecase.NewJobWatchUseCase(jobRepo, logger)
	chatUC := usecase.NewChatUseCase(conversationRepo, ai, usageUC)

	// ---- Background processor ----
	workerPool := worker.NewPool(cfg.Worker.Workers)
	workerPool.Start(ctx)
	defer workerPool.Stop()
	processor := worker.NewJobProcessor(jobRepo, runUC, cfg.Worker.PollInterval, logger)
	go processor.Start(ctx, workerPool)

	// ---- HTTP API ----
	auth := web.NewAuthManager(cfg.Server.JWTSecret)
	srv := web.NewServer(runUC, jobsUC, chatUC, usageUC, artifactRepo, auth, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}
