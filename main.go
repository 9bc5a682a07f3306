package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"newsroom/infrastructure/cache"
	"newsroom/infrastructure/configuration"
	"newsroom/infrastructure/events"
	"newsroom/infrastructure/extractor"
	"newsroom/infrastructure/generator"
	"newsroom/infrastructure/llm"
	"newsroom/infrastructure/logger"
	"newsroom/infrastructure/persistence"
	"newsroom/infrastructure/publisher"
	"newsroom/infrastructure/realtime"
	httpHandler "newsroom/interfaces/http"
	"newsroom/server"
	"newsroom/usecase"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Env files never override variables already set in the process.
	envFiles := configuration.LoadEnvFromFile("config.env", ".env")
	logger.GetLogger().WithField("files", envFiles).Info("Loaded env files")
	cfg, err := configuration.Load()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Error while loading configuration")
	}
	logger.SetLevel(cfg.Logger.Level)

	db, err := persistence.NewPostgreSQLDB(ctx, cfg.Database.Psql)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot connect to the article database")
	}
	defer db.Close()
	if err := persistence.EnsureSchema(db); err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Error while ensuring schema")
	}
	logger.GetLogger().WithField("host", cfg.Database.Psql.Host).Info("Database connected.")

	redisClient, err := cache.NewCache(ctx, cfg.RedisClient)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without article cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.GetLogger().Info("Redis client initialized successfully.")
	}

	eventPublisher, err := events.NewPublisher(ctx, cfg.Events)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("sink", cfg.Events.Sink).Warn("Event sink not available - continuing without events")
		eventPublisher = events.NoopPublisher{}
	}
	defer eventPublisher.Close()

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Error while creating LLM client")
	}
	logger.GetLogger().WithField("llm", llmClient.Name()).Info("LLM client initialized")

	hub := realtime.NewDistributionHub()
	outbound := &http.Client{Timeout: 30 * time.Second}

	articleRepository := persistence.NewArticleRepository(db)
	socialPostRepository := persistence.NewSocialPostRepository(db)
	platformTokenRepository := persistence.NewPlatformTokenRepository(db)

	articleCache := cache.NewArticleCache(redisClient, cfg.RedisClient.ArticleTTL)
	invalidator := cache.NewInvalidator(redisClient, outbound, cfg.Revalidate)
	contentExtractor := extractor.New(&http.Client{Timeout: cfg.Extractor.Timeout}, cfg.Extractor)
	articleGenerator := generator.New(llmClient)
	platforms := publisher.NewRegistry(outbound, platformTokenRepository, cfg.Social)

	distributionUsecase := usecase.NewDistributionUsecase(
		articleRepository,
		socialPostRepository,
		articleGenerator,
		platforms,
		hub,
		cfg.App.PublicBaseURL,
	)
	articleUsecase := usecase.NewArticleUsecase(
		articleRepository,
		socialPostRepository,
		contentExtractor,
		articleGenerator,
		articleCache,
		invalidator,
		eventPublisher,
		distributionUsecase,
		cfg.Social.Platforms,
	)
	publishUsecase := usecase.NewPublishUsecase(articleRepository, articleGenerator, invalidator, eventPublisher)
	platformUsecase := usecase.NewPlatformUsecase(platformTokenRepository)

	router := server.InitiateRouter(cfg.App, server.Handlers{
		Generate:     httpHandler.NewGenerateHandler(articleUsecase),
		Article:      httpHandler.NewArticleHandler(articleUsecase, publishUsecase),
		Distribution: httpHandler.NewDistributionHandler(distributionUsecase),
		Tools:        httpHandler.NewToolsHandler(articleUsecase, invalidator),
		Platform:     httpHandler.NewPlatformHandler(platformUsecase),
		Health:       httpHandler.NewHealthHandler(healthChecks(db, redisClient)),
	}, hub)

	app := cfg.App
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		var err error
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
		} else {
			if app.TLSEnabled {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Graceful shutdown incomplete")
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
	logger.GetLogger().Info("Application stopped")
}

func healthChecks(db *sql.DB, redisClient *redis.Client) map[string]httpHandler.HealthCheck {
	checks := map[string]httpHandler.HealthCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	return checks
}
