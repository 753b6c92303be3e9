package upload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
)

type storageEventSrv struct {
	photos port.PhotoRepository
	jobs   port.UploadJobRepository
	status port.StatusUpdater
}

// compile-time check: *storageEventSrv must satisfy port.StorageEventHandler
var _ port.StorageEventHandler = (*storageEventSrv)(nil)

// NewStorageEventHandler constructs the handler for provider object-created
// notifications.
func NewStorageEventHandler(photos port.PhotoRepository, jobs port.UploadJobRepository, status port.StatusUpdater) port.StorageEventHandler {
	return &storageEventSrv{photos: photos, jobs: jobs, status: status}
}

// HandleObjectCreated resolves the object key to its photo and marks the
// associated upload job complete. Keys not tracked by this service (including
// derivative objects the pipeline writes itself) are ignored.
func (s *storageEventSrv) HandleObjectCreated(ctx context.Context, objectKey string) error {
	photo, err := s.photos.GetByStorageKey(ctx, objectKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debugf(ctx, "ignoring storage event for unknown key %q", objectKey)
			return nil
		}
		return fmt.Errorf("lookup photo by key %q: %w", objectKey, err)
	}

	job, err := s.jobs.GetByPhotoID(ctx, photo.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("upload job for photo #%s: %w", photo.ID, port.ErrNotFound)
		}
		return fmt.Errorf("lookup upload job for photo #%s: %w", photo.ID, err)
	}

	logger.Infof(ctx, "storage reported object %q created, completing upload job #%s", objectKey, job.ID)
	return s.status.MarkComplete(ctx, job.ID)
}
