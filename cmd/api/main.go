package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rapidphoto/uploader-go/internal/cache"
	"github.com/rapidphoto/uploader-go/internal/config"
	"github.com/rapidphoto/uploader-go/internal/db"
	"github.com/rapidphoto/uploader-go/internal/handler/api"
	"github.com/rapidphoto/uploader-go/internal/keygen"
	"github.com/rapidphoto/uploader-go/internal/logger"
	cMiddleware "github.com/rapidphoto/uploader-go/internal/middleware"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/repository/mariadb"
	"github.com/rapidphoto/uploader-go/internal/storage"
	"github.com/rapidphoto/uploader-go/internal/task"
	photoSvc "github.com/rapidphoto/uploader-go/internal/usecase/photo"
	uploadSvc "github.com/rapidphoto/uploader-go/internal/usecase/upload"
	rpuuid "github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/rapidphoto/uploader-go/internal/workerpool"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	r := initRouter(ctx, cfg.JWTPublicKey)

	strg := initStorage(ctx, cfg)

	photoRepo := mariadb.NewPhotoRepository(database.DB)
	jobRepo := mariadb.NewUploadJobRepository(database.DB)

	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis cache enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured — caching and post-processing are disabled")
	}

	pool := workerpool.New(cfg.BatchPoolSize, 2*uploadSvc.MaxBatchSize)
	defer pool.Shutdown()

	initiatorSvc := uploadSvc.NewUploadInitiator(photoRepo, jobRepo, strg, keygen.New(), pool, rpuuid.NewUUID)
	r.Post("/uploads", api.InitiateUploadHandler(initiatorSvc))
	r.Post("/uploads/batch", api.BatchUploadHandler(initiatorSvc))

	statusSvc := uploadSvc.NewStatusUpdater(jobRepo, photoRepo, dispatcher, ca, cfg.ProcessingEnabled)
	r.With(cMiddleware.WithUploadJobID()).
		Patch("/uploads/{id}/status", api.UpdateStatusHandler(statusSvc))
	r.With(cMiddleware.WithUploadJobID()).
		Post("/uploads/{id}/complete", api.MarkCompleteHandler(statusSvc))
	r.With(cMiddleware.WithUploadJobID()).
		Post("/uploads/{id}/fail", api.MarkFailedHandler(statusSvc))
	r.With(cMiddleware.WithUploadJobID()).
		Post("/uploads/{id}/retry", api.RetryUploadHandler(statusSvc))

	getJobSvc := uploadSvc.NewUploadJobGetter(jobRepo)
	r.With(cMiddleware.WithUploadJobID()).
		Get("/uploads/{id}", api.GetUploadJobHandler(getJobSvc))
	r.Get("/uploads", api.ListUploadJobsHandler(getJobSvc))

	getPhotoSvc := photoSvc.NewPhotoGetter(photoRepo, strg, ca)
	r.With(cMiddleware.WithPhotoID()).
		Get("/photos/{id}", api.GetPhotoHandler(getPhotoSvc))

	listSvc := photoSvc.NewPhotoLister(photoRepo)
	r.Get("/photos", api.ListPhotosHandler(listSvc))

	tagSvc := photoSvc.NewTagEditor(photoRepo, ca)
	r.With(cMiddleware.WithPhotoID()).
		Put("/photos/{id}/tags", api.ReplaceTagsHandler(tagSvc))
	r.With(cMiddleware.WithPhotoID()).
		Post("/photos/{id}/tags", api.AddTagHandler(tagSvc))
	r.With(cMiddleware.WithPhotoID()).
		Delete("/photos/{id}/tags", api.RemoveTagHandler(tagSvc))

	if cfg.WebhookEnabled {
		eventSvc := uploadSvc.NewStorageEventHandler(photoRepo, jobRepo, statusSvc)
		r.Post("/webhooks/storage", api.StorageEventHandler(eventSvc))
		logger.Info(ctx, "✅  Storage event webhook enabled")
	}

	r.Get("/healthz", api.HealthHandler(database.DB))

	listenRouter(ctx, r, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initRouter(ctx context.Context, jwtKey string) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(cMiddleware.WithAuth(jwtKey))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	client, err := storage.NewMinioClient(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	strg, err := client.WithBucket(cfg.MinioBucket)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MinioBucket, err)
		os.Exit(1)
	}

	return strg
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
