package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fleetdocs/certintake/internal/abbrev"
	"github.com/fleetdocs/certintake/internal/common"
	"github.com/fleetdocs/certintake/internal/export"
	"github.com/fleetdocs/certintake/internal/oracle"
	"github.com/fleetdocs/certintake/internal/orchestrator"
	"github.com/fleetdocs/certintake/internal/pipeline"
	"github.com/fleetdocs/certintake/internal/repository"
	"github.com/fleetdocs/certintake/internal/retry"
	"github.com/fleetdocs/certintake/internal/server"
	"github.com/fleetdocs/certintake/internal/storage"
	"github.com/fleetdocs/certintake/internal/taskstore"
	"github.com/fleetdocs/certintake/internal/textlayer"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	certsRepo := repository.NewCertificateRepository(pool, logger)
	usersRepo := repository.NewUserRepository(pool, logger)

	if err := orchestrator.BootstrapAdmin(ctx, usersRepo,
		cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword, logger); err != nil {
		logger.Error("failed to bootstrap admin", "error", err)
		os.Exit(1)
	}

	// Object storage
	store, err := storage.NewMinioService(cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Error("failed to ensure bucket", "error", err)
		os.Exit(1)
	}

	// Abbreviation registry
	registry := abbrev.NewRegistry()
	if cfg.Registry.Path != "" {
		if err := registry.LoadFile(cfg.Registry.Path); err != nil {
			logger.Error("failed to load registry file", "path", cfg.Registry.Path, "error", err)
			os.Exit(1)
		}
		logger.Info("registry file loaded", "path", cfg.Registry.Path)
	}

	// Extraction
	extractor := oracle.NewClient(oracle.Config{
		APIKey:      cfg.Oracle.APIKey,
		Model:       cfg.Oracle.Model,
		Temperature: cfg.Oracle.Temperature,
		Timeout:     cfg.Oracle.Timeout,
	}, logger)

	var reader oracle.DocumentReader
	if cfg.DocumentAI.ProjectID != "" && cfg.DocumentAI.ProcessorID != "" {
		r, err := oracle.NewDocumentAIReader(ctx, oracle.DocumentAIConfig{
			ProjectID:       cfg.DocumentAI.ProjectID,
			Location:        cfg.DocumentAI.Location,
			ProcessorID:     cfg.DocumentAI.ProcessorID,
			CredentialsFile: cfg.DocumentAI.CredentialsFile,
			Timeout:         cfg.DocumentAI.Timeout,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize document ai", "error", err)
			os.Exit(1)
		}
		reader = r
	} else {
		logger.Warn("document ai not configured, scanned documents will use the filename fallback")
	}

	classifier := textlayer.NewClassifier(textlayer.Config{}, logger)
	analyzer := pipeline.NewAnalyzer(classifier, extractor, reader, logger)
	processor := pipeline.NewProcessor(analyzer, registry, certsRepo, logger)

	orch := orchestrator.New(
		taskstore.New(logger),
		processor,
		store,
		retry.Policy{
			MaxAttempts: uint64(cfg.Intake.StorageAttempts),
			MinWait:     cfg.Intake.StorageMinWait,
			MaxWait:     cfg.Intake.StorageMaxWait,
			Logger:      logger,
		},
		cfg.Storage.FolderPath,
		logger,
		orchestrator.WithWorkers(cfg.Intake.Workers),
		orchestrator.WithQueueSize(cfg.Intake.QueueSize),
		orchestrator.WithProcessTimeout(cfg.Intake.FileTimeout),
	)

	srv := server.New(analyzer, orch, export.NewService(certsRepo, logger), logger)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown interrupted", "error", err)
	}
	orch.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
