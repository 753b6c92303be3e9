package upload

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
)

type retrySweeperSrv struct {
	jobs   port.UploadJobRepository
	status port.StatusUpdater
}

// compile-time check: *retrySweeperSrv must satisfy port.RetrySweeper
var _ port.RetrySweeper = (*retrySweeperSrv)(nil)

// NewRetrySweeper constructs the periodic retry sweep.
func NewRetrySweeper(jobs port.UploadJobRepository, status port.StatusUpdater) port.RetrySweeper {
	return &retrySweeperSrv{jobs: jobs, status: status}
}

// SweepFailedUploads re-arms every failed job that still has retry budget.
// Jobs retry independently: one job's failure is counted and skipped, never
// stopping the rest of the sweep. Jobs past MaxRetryAttempts are never
// selected and stay failed until someone intervenes.
func (s *retrySweeperSrv) SweepFailedUploads(ctx context.Context) (port.RetrySweepOutput, error) {
	jobs, err := s.jobs.ListRetryable(ctx, MaxRetryAttempts)
	if err != nil {
		return port.RetrySweepOutput{}, err
	}
	if len(jobs) == 0 {
		logger.Debug(ctx, "no failed uploads eligible for retry")
		return port.RetrySweepOutput{}, nil
	}

	logger.Infof(ctx, "found %d failed upload jobs eligible for retry", len(jobs))

	var out port.RetrySweepOutput
	for _, job := range jobs {
		if err := s.status.RetryUpload(ctx, job.ID); err != nil {
			logger.Warnf(ctx, "failed to retry upload job #%s: %v", job.ID, err)
			out.FailCount++
			continue
		}
		out.SuccessCount++
	}

	logger.Infof(ctx, "retry sweep completed: successful=%d, failed=%d", out.SuccessCount, out.FailCount)
	return out, nil
}
