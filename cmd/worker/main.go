package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rapidphoto/uploader-go/internal/cache"
	"github.com/rapidphoto/uploader-go/internal/config"
	"github.com/rapidphoto/uploader-go/internal/db"
	workerHandler "github.com/rapidphoto/uploader-go/internal/handler/worker"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/processor"
	"github.com/rapidphoto/uploader-go/internal/repository/mariadb"
	"github.com/rapidphoto/uploader-go/internal/storage"
	"github.com/rapidphoto/uploader-go/internal/tagger"
	"github.com/rapidphoto/uploader-go/internal/task"
	uploadSvc "github.com/rapidphoto/uploader-go/internal/usecase/upload"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg := initStorage(cfg)

	photoRepo := mariadb.NewPhotoRepository(database.DB)
	jobRepo := mariadb.NewUploadJobRepository(database.DB)
	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	ca := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)

	var tg port.Tagger
	if cfg.TaggingEnabled {
		tg = tagger.NewNoop()
	}

	processSvc := uploadSvc.NewPhotoProcessor(photoRepo, strg, processor.NewImagingProcessor(), tg, ca)
	statusSvc := uploadSvc.NewStatusUpdater(jobRepo, photoRepo, dispatcher, ca, cfg.ProcessingEnabled)
	sweepSvc := uploadSvc.NewRetrySweeper(jobRepo, statusSvc)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProcessPhoto, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProcessPhotoPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProcessPhotoHandler(ctx, p, processSvc)
	})
	mux.HandleFunc(task.TypeRetrySweep, func(ctx context.Context, t *asynq.Task) error {
		return workerHandler.RetrySweepHandler(ctx, sweepSvc)
	})

	runWorker(ctx, mux, cfg)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(cfg *config.Settings) port.Storage {
	client, err := storage.NewMinioClient(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	strg, err := client.WithBucket(cfg.MinioBucket)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize bucket %q: %v", cfg.MinioBucket, err)
		os.Exit(1)
	}

	return strg
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: cfg.WorkerConcurrency})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// Give Asynq up to 30 sec to finish tasks
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	srv.Shutdown()       // stop accepting new tasks, finish in-flight
	<-shutdownCtx.Done() // either timeout or done

	logger.Info(ctx, "✅  Worker gracefully stopped")
}
