package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hibiken/asynq"
	"github.com/rapidphoto/uploader-go/internal/config"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/task"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the scheduler")
		os.Exit(1)
	}

	logger.Init()

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, nil)

	spec := fmt.Sprintf("@every %s", cfg.RetrySweepInterval)
	entryID, err := scheduler.Register(spec, task.NewRetrySweepTask())
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to register retry sweep: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "🚀 Scheduler started, retry sweep %q runs every %s", entryID, cfg.RetrySweepInterval)

	// Run blocks and handles SIGINT/SIGTERM itself
	if err := scheduler.Run(); err != nil {
		logger.Errorf(ctx, "❌  Scheduler failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Scheduler gracefully stopped")
}
