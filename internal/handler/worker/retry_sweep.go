package worker

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
)

// RetrySweepHandler handles the periodic retry-sweep task.
func RetrySweepHandler(ctx context.Context, svc port.RetrySweeper) error {
	out, err := svc.SweepFailedUploads(ctx)
	if err != nil {
		logger.Errorf(ctx, "❌  Retry sweep failed: %v", err)
		return err
	}

	logger.Infof(ctx, "✅  Retry sweep done: %d re-armed, %d still failing", out.SuccessCount, out.FailCount)
	return nil
}
