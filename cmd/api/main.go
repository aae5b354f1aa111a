// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/config"
	"github.com/capitalize-ai/rent-assistant/internal/handler"
	"github.com/capitalize-ai/rent-assistant/internal/llm"
	"github.com/capitalize-ai/rent-assistant/internal/middleware"
	natsclient "github.com/capitalize-ai/rent-assistant/internal/nats"
	"github.com/capitalize-ai/rent-assistant/internal/service"
	"github.com/capitalize-ai/rent-assistant/internal/store"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
	"github.com/capitalize-ai/rent-assistant/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Environment == "development",
		Service:     "rent-assistant",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "rent-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer func() { _ = tracing.Shutdown(ctx, tp) }()
		}
	}

	// Rental data store
	pg, err := store.OpenPostgres(store.PostgresConfig{
		DSN:          cfg.PostgresDSN(),
		MaxOpenConns: cfg.PostgresMaxConns,
		MaxIdleConns: cfg.PostgresMaxIdle,
	})
	if err != nil {
		log.Fatal("failed to open postgres", zap.Error(err))
	}
	defer pg.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := pg.Ping(pingCtx); err != nil {
		log.Warn("postgres not reachable at startup", zap.Error(err))
	}
	cancel()

	var (
		st     store.Store = pg
		cached *store.Cached
	)
	if cfg.CacheEnabled {
		rdb := store.NewRedisClient(store.RedisConfig{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis not reachable, lookups will bypass the cache", zap.Error(err))
		}
		cancel()

		cached = store.NewCached(pg, rdb, cfg.CacheTTL, log)
		st = cached
	}

	// Connect to NATS
	natsClient, err := natsclient.Connect(ctx, natsclient.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	// Ensure JetStream stream exists
	streamManager := natsclient.NewStreamManager(natsClient)
	if err := streamManager.EnsureStream(ctx); err != nil {
		log.Fatal("failed to ensure stream", zap.Error(err))
	}

	// Initialize LLM client
	provider := llm.Provider(cfg.DefaultLLM)
	apiKey := cfg.AnthropicAPIKey
	if provider == llm.ProviderOpenAI {
		apiKey = cfg.OpenAIAPIKey
	}
	llmClient, err := llm.NewClient(provider, llm.Options{APIKey: apiKey, Model: cfg.LLMModel})
	if err != nil {
		log.Fatal("failed to create LLM client", zap.String("provider", cfg.DefaultLLM), zap.Error(err))
	}
	log.Info("LLM client ready", zap.String("provider", llmClient.Name()))

	// Initialize services
	threadSvc := service.NewThreadService(streamManager, log)
	dispatcher := service.NewDispatcher(st, llmClient, log)
	router := service.NewRouter(service.RouterConfig{
		Threads:    threadSvc,
		Dispatcher: dispatcher,
		Completer:  llmClient,
		Runtime:    service.NewEventRuntime(streamManager, log),
		Discovery:  service.NewKeywordDiscovery(cfg.DelegateAgents),
		Agents:     streamManager,
		Logger:     log,
	})
	riskSvc := service.NewRiskService(st, streamManager, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(st, natsClient)
	threadHandler := handler.NewThreadHandler(threadSvc, log)
	messageHandler := handler.NewMessageHandler(threadSvc, router, log)
	chatHandler := handler.NewChatHandler(dispatcher, log)
	tenantHandler := handler.NewTenantHandler(riskSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", chatHandler.Chat)

		r.Route("/threads", func(r chi.Router) {
			r.Post("/", threadHandler.Create)
			r.Get("/", threadHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", threadHandler.Get)
				r.Get("/messages", messageHandler.List)
				r.Post("/messages", messageHandler.Send)
			})
		})

		r.Route("/tenants/{id}", func(r chi.Router) {
			r.Get("/risk", tenantHandler.Risk)
			r.With(middleware.RequireScope("tenants:write")).Post("/reminders", tenantHandler.Remind)
		})

		if cached != nil {
			cacheHandler := handler.NewCacheHandler(cached, log)
			r.With(middleware.RequireScope("cache:admin")).Delete("/cache", cacheHandler.Invalidate)
		}
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
