package upload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/sethvargo/go-retry"
)

type statusSrv struct {
	jobs              port.UploadJobRepository
	photos            port.PhotoRepository
	tasks             port.TaskDispatcher
	cache             port.Cache
	processingEnabled bool
}

// compile-time check: *statusSrv must satisfy port.StatusUpdater
var _ port.StatusUpdater = (*statusSrv)(nil)

// NewStatusUpdater constructs the upload status engine. When
// processingEnabled is false, completions never trigger the pipeline.
func NewStatusUpdater(jobs port.UploadJobRepository, photos port.PhotoRepository, tasks port.TaskDispatcher, cache port.Cache, processingEnabled bool) port.StatusUpdater {
	return &statusSrv{jobs: jobs, photos: photos, tasks: tasks, cache: cache, processingEnabled: processingEnabled}
}

// UpdateStatus applies a transition to the job and cascades it onto the owning
// photo in the same logical operation. A FAILED transition bumps the attempt
// counter and records the message; a COMPLETE transition enqueues
// post-processing once both rows are saved.
func (s *statusSrv) UpdateStatus(ctx context.Context, jobID uuid.UUID, status model.UploadStatus, errorMessage string) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("upload job #%s: %w", jobID, port.ErrNotFound)
		}
		return err
	}
	photo, err := s.photos.GetByID(ctx, job.PhotoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("photo #%s: %w", job.PhotoID, port.ErrNotFound)
		}
		return err
	}

	job.Status = status
	if errorMessage != "" {
		job.ErrorMessage = &errorMessage
	}

	switch status {
	case model.UploadStatusUploading:
		photo.Status = model.PhotoStatusUploading
	case model.UploadStatusComplete:
		photo.Status = model.PhotoStatusComplete
	case model.UploadStatusFailed:
		photo.Status = model.PhotoStatusFailed
		job.AttemptCount++
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("update upload job #%s: %w", jobID, err)
	}
	if err := s.photos.Update(ctx, photo); err != nil {
		return fmt.Errorf("update photo #%s: %w", photo.ID, err)
	}

	if err := s.cache.DeletePhotoDetails(ctx, photo.ID); err != nil {
		logger.Warnf(ctx, "failed deleting cache for photo #%s: %v", photo.ID, err)
	}

	logger.Infof(ctx, "upload job #%s moved to %q (photo #%s now %q)", jobID, status, photo.ID, photo.Status)

	if status == model.UploadStatusComplete && s.processingEnabled {
		// Fire-and-forget from the caller's point of view: the task is
		// durably enqueued here, processed by the worker pool later.
		if err := s.tasks.EnqueueProcessPhoto(ctx, photo.ID); err != nil {
			return fmt.Errorf("enqueue processing for photo #%s: %w", photo.ID, err)
		}
		logger.Infof(ctx, "enqueued post-processing for photo #%s", photo.ID)
	}

	return nil
}

// MarkComplete is the sole trigger for post-processing. Calling it on an
// already-complete job re-enqueues processing, which is safe: the pipeline
// overwrites photo fields wholesale.
func (s *statusSrv) MarkComplete(ctx context.Context, jobID uuid.UUID) error {
	return s.UpdateStatus(ctx, jobID, model.UploadStatusComplete, "")
}

func (s *statusSrv) MarkFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) error {
	return s.UpdateStatus(ctx, jobID, model.UploadStatusFailed, errorMessage)
}

// CanRetry reports whether the job still has retry budget. Once false it
// stays false forever: AttemptCount never decreases.
func (s *statusSrv) CanRetry(ctx context.Context, jobID uuid.UUID) (bool, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("upload job #%s: %w", jobID, port.ErrNotFound)
		}
		return false, err
	}
	return job.AttemptCount < MaxRetryAttempts, nil
}

// RetryUpload re-arms a failed job: status back to uploading, attempt counter
// bumped. The photo row is left untouched. The conditional update is retried
// a bounded number of times; when the budget is spent the job is marked
// failed instead.
func (s *statusSrv) RetryUpload(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("upload job #%s: %w", jobID, port.ErrNotFound)
		}
		return err
	}
	if job.AttemptCount >= MaxRetryAttempts {
		return fmt.Errorf("upload job #%s: %w", jobID, port.ErrRetryExhausted)
	}

	attempt := job.AttemptCount + 1
	backoff := retry.WithMaxRetries(updateRetries, retry.NewConstant(existsPollInterval))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		job.Status = model.UploadStatusUploading
		job.AttemptCount = attempt
		if err := s.jobs.Update(ctx, job); err != nil {
			// on a lost concurrent write, refetch and re-apply the single bump,
			// unless the concurrent writer already spent the budget
			if errors.Is(err, port.ErrStaleRecord) {
				if fresh, ferr := s.jobs.GetByID(ctx, jobID); ferr == nil {
					if fresh.AttemptCount >= MaxRetryAttempts {
						return fmt.Errorf("upload job #%s: %w", jobID, port.ErrRetryExhausted)
					}
					job = fresh
					attempt = fresh.AttemptCount + 1
				}
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, port.ErrRetryExhausted) {
			return err
		}
		logger.Errorf(ctx, "retry of upload job #%s kept failing, marking failed: %v", jobID, err)
		return s.MarkFailed(ctx, jobID, fmt.Sprintf("max retry attempts exceeded: %v", err))
	}

	logger.Infof(ctx, "upload job #%s re-armed, attempt %d", jobID, job.AttemptCount)
	return nil
}
