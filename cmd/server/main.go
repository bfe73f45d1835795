package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appapikey "github.com/AegisGov/AegisGate/pkg/app/apikey"
	"github.com/AegisGov/AegisGate/pkg/app/check"
	"github.com/AegisGov/AegisGate/pkg/config"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
	handlers "github.com/AegisGov/AegisGate/pkg/handlers/http"
	"github.com/AegisGov/AegisGate/pkg/infra/audit"
	infraCache "github.com/AegisGov/AegisGate/pkg/infra/cache"
	"github.com/AegisGov/AegisGate/pkg/infra/database"
	infraLogger "github.com/AegisGov/AegisGate/pkg/infra/logger"
	"github.com/AegisGov/AegisGate/pkg/infra/metrics"
	"github.com/AegisGov/AegisGate/pkg/infra/repository"
	"github.com/AegisGov/AegisGate/pkg/middleware"
	"github.com/AegisGov/AegisGate/pkg/server"
)

func main() {
	ctx := context.Background()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	registry := metrics.NewRegistry()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheClient, err := infraCache.NewClient(infraCache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, api key lookups will hit the database")
		cacheClient = nil
	}

	// audit sink
	var sink audit.Sink
	if cfg.ClickHouse.Enabled {
		chSink, err := audit.NewClickHouseSink(cfg.ClickHouse.DSN, logger, registry)
		if err != nil {
			logger.WithError(err).Warn("clickhouse unavailable, audit records go to the structured log")
			sink = audit.NewFallbackSink(logger)
		} else {
			sink = chSink
		}
	} else {
		sink = audit.NewFallbackSink(logger)
	}
	defer sink.Close()

	// classifier backend; a missing key degrades to pattern-only evaluation
	backend, err := classifier.NewGeminiBackend(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, 0.1)
	if err != nil {
		logger.WithError(err).Warn("classifier backend unavailable, running in fallback mode")
		backend = nil
	}
	timeout := time.Duration(cfg.Gemini.TimeoutSeconds * float64(time.Second))
	gateway := classifier.NewGateway(backend, timeout, logger, registry)

	// repository
	agentRepository := repository.NewAgentRepository(db.DB)
	apiKeyRepository := repository.NewApiKeyRepository(db.DB)
	feedbackRepository := repository.NewFeedbackRepository(db.DB)
	conversationRepository := repository.NewConversationRepository(db.DB)

	// service
	apiKeyFinder := appapikey.NewFinder(
		apiKeyRepository,
		cacheClient,
		time.Duration(cfg.Guardrails.APIKeyCacheTTLSecs)*time.Second,
		logger,
	)
	checker := check.NewChecker(
		gateway, sink, conversationRepository, logger, registry,
		cfg.Guardrails.MaxPromptBytes, cfg.Guardrails.ParallelEvaluators,
	)
	outputChecker := check.NewOutputChecker(gateway, sink, conversationRepository, logger, registry)

	// middleware
	middlewareTransport := middleware.Transport{
		AuthMiddleware: middleware.NewAuthMiddleware(logger, apiKeyFinder, cfg.Guardrails.RequireAPIKey),
	}

	// Handler Transport
	handlerTransport := handlers.HandlerTransport{
		// Guardrails
		CheckPromptHandler:  handlers.NewCheckPromptHandler(logger, checker),
		CheckOutputHandler:  handlers.NewCheckOutputHandler(logger, outputChecker),
		CapabilitiesHandler: handlers.NewCapabilitiesHandler(logger, gateway),
		// Agent
		CreateAgentHandler: handlers.NewCreateAgentHandler(logger, agentRepository),
		ListAgentsHandler:  handlers.NewListAgentsHandler(logger, agentRepository),
		GetAgentHandler:    handlers.NewGetAgentHandler(logger, agentRepository),
		UpdateAgentHandler: handlers.NewUpdateAgentHandler(logger, agentRepository),
		DeleteAgentHandler: handlers.NewDeleteAgentHandler(logger, agentRepository),
		// APIKey
		CreateAPIKeyHandler: handlers.NewCreateAPIKeyHandler(logger, agentRepository, apiKeyRepository),
		ListAPIKeysHandler:  handlers.NewListAPIKeysHandler(logger, apiKeyRepository),
		RevokeAPIKeyHandler: handlers.NewRevokeAPIKeyHandler(logger, apiKeyRepository),
		// Feedback
		CreateFeedbackHandler: handlers.NewCreateFeedbackHandler(logger, feedbackRepository),
		ListFeedbackHandler:   handlers.NewListFeedbackHandler(logger, feedbackRepository),
		// Conversation
		GetConversationHandler: handlers.NewGetConversationHandler(logger, conversationRepository),
		ListSessionsHandler:    handlers.NewListSessionsHandler(logger, conversationRepository),
	}

	srv := server.NewGateServer(server.GateServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
		Metrics:             registry,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
