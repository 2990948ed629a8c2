package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infosec-jobs/internal/api/activejobs"
	"infosec-jobs/internal/api/companydata"
	"infosec-jobs/internal/api/serpapi"
	"infosec-jobs/internal/classify"
	"infosec-jobs/internal/config"
	"infosec-jobs/internal/logger"
	"infosec-jobs/internal/notify"
	"infosec-jobs/internal/pipeline"
	"infosec-jobs/internal/ratelimit"
	"infosec-jobs/internal/scheduler"
	"infosec-jobs/internal/server"
	"infosec-jobs/internal/storage/postgres"
	"infosec-jobs/internal/storage/redis"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting infosec-jobs",
		zap.String("log_level", cfg.LogLevel),
		zap.String("sync_schedule", cfg.SyncSchedule),
	)

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	log.Info("connecting to Redis...")
	cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	jobsClient := activejobs.New(
		cfg.JobsAPIBaseURL,
		cfg.JobsAPIHost,
		cfg.JobsAPIKey,
		activejobs.SearchParams{
			TitleFilter: cfg.JobsQuery,
			Limit:       cfg.JobsPageSize,
			RemoteOnly:  cfg.JobsRemoteOnly,
			IncludeAI:   cfg.JobsIncludeAI,
		},
		cfg.JobsAPITimeout,
		log,
	)

	searchClient := serpapi.New(cfg.SerpAPIBaseURL, cfg.SerpAPIKey, log)
	companyClient := companydata.New(cfg.CompanyAPIBaseURL, cfg.CompanyAPIKey, log)
	classifier := classify.New(cfg.OpenAIKey, cfg.OpenAIModel, log)

	syncer := pipeline.NewSyncer(
		jobsClient,
		store,
		store,
		pipeline.NewOrgResolver(searchClient, log),
		pipeline.NewEnricher(companyClient, store, log),
		classifier,
		pipeline.NewKeywordFilter(pipeline.DefaultIncludeKeywords, pipeline.DefaultExcludeKeywords),
		ratelimit.NewIntervalGate(cfg.ClassifyDelay),
		activejobs.SourceName,
		log,
	)

	notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID, log)
	if err != nil {
		log.Warn("telegram notifier unavailable, continuing without it", zap.Error(err))
		notifier = nil
	}

	sched := scheduler.New(syncer, notifier, cache, cfg.SyncSchedule, log)
	if err := sched.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := server.New(store, cache, syncer, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(":" + cfg.HTTPPort)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("http server stopped", zap.Error(err))
		}
	case sig := <-sigChan:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	log.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}

	log.Info("stopped")
}
