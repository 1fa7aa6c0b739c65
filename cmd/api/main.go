package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/handlers"
	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			log.Fatal("invalid configuration", zap.String("field", cfgErr.Field), zap.Error(err))
		}
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	agent, err := services.NewEvaluatorAgent(ctx, services.AgentConfig{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Timeout:     cfg.Gemini.AgentTimeout,
		MaxAttempts: cfg.Worker.RetryMaxAttempts,
		RetryDelay:  cfg.Worker.RetryInitialDelay,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize evaluator agent", zap.Error(err))
	}
	log.Info("evaluator agent initialized", zap.String("model", cfg.Gemini.Model))

	index := services.NewNoopCandidateIndex()
	var searchHandler *handlers.SearchHandler

	if cfg.Qdrant.Enabled {
		geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel)
		if err != nil {
			log.Fatal("failed to initialize gemini embeddings", zap.Error(err))
		}

		index, err = services.NewCandidateIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, geminiService, log)
		if err != nil {
			log.Fatal("failed to initialize qdrant", zap.Error(err))
		}

		if err := index.InitCollection(ctx); err != nil {
			log.Fatal("failed to initialize qdrant collection", zap.Error(err))
		}

		searchHandler = handlers.NewSearchHandler(index)
		log.Info("candidate index enabled", zap.String("collection", cfg.Qdrant.Collection))
	}

	evaluatorService := services.NewEvaluatorService(services.NewDocumentLoader(nil), agent, index, log)

	routes := handlers.Routes{
		Evaluate: handlers.NewEvaluateHandler(storageService, evaluatorService, cfg.Storage.MaxFileSize, log),
		Search:   searchHandler,
	}

	var worker services.Worker
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			log.Fatal("failed to initialize database", zap.Error(err))
		}

		batchRepo := repositories.NewBatchRepository(db)
		candidateRepo := repositories.NewCandidateRepository(db)

		requeued, err := batchRepo.RequeueProcessing()
		if err != nil {
			log.Fatal("failed to requeue interrupted batches", zap.Error(err))
		}
		if requeued > 0 {
			log.Info("requeued interrupted batches", zap.Int64("count", requeued))
		}

		processor := services.NewBatchProcessor(batchRepo, candidateRepo, evaluatorService, log)
		worker = services.NewWorker(batchRepo, processor, cfg.Worker.Concurrency, log)

		// Workers run on their own context so Stop lets in-flight batches finish.
		worker.Start(context.WithoutCancel(ctx))

		routes.Batch = handlers.NewBatchHandler(batchRepo, storageService, worker, cfg.Storage.MaxFileSize, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Resume Ranker",
		ReadTimeout:  30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxBodySize),
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.SetupRoutes(app, routes)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
		if worker != nil {
			worker.Stop()
		}
		cancel()
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting",
		zap.String("addr", addr),
		zap.Bool("database", cfg.Database.Enabled),
		zap.Bool("qdrant", cfg.Qdrant.Enabled),
	)

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	<-stopped
	log.Info("server stopped")
}
