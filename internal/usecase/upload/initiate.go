package upload

import (
	"context"
	"fmt"
	"sync"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/rapidphoto/uploader-go/internal/workerpool"
)

type uploadInitiatorSrv struct {
	photos  port.PhotoRepository
	jobs    port.UploadJobRepository
	strg    port.Storage
	keys    port.KeyGenerator
	pool    *workerpool.Pool
	newUUID port.UUIDGen
}

// compile-time check: *uploadInitiatorSrv must satisfy port.UploadInitiator
var _ port.UploadInitiator = (*uploadInitiatorSrv)(nil)

// NewUploadInitiator constructs an UploadInitiator. The pool is the
// process-global batch pool; its size caps concurrent outstanding storage
// calls across all batch requests.
func NewUploadInitiator(photos port.PhotoRepository, jobs port.UploadJobRepository, strg port.Storage, keys port.KeyGenerator, pool *workerpool.Pool, newUUID port.UUIDGen) port.UploadInitiator {
	return &uploadInitiatorSrv{photos: photos, jobs: jobs, strg: strg, keys: keys, pool: pool, newUUID: newUUID}
}

// InitiateUpload creates the Photo/UploadJob pair and presigns the upload URL.
// On error the caller must treat the initiation as "retry me", not "nothing
// happened": rows may already exist even when the URL was never issued.
func (s *uploadInitiatorSrv) InitiateUpload(ctx context.Context, in port.InitiateUploadInput) (port.InitiateUploadOutput, error) {
	if !IsContentTypeAllowed(in.ContentType) {
		return port.InitiateUploadOutput{}, fmt.Errorf("%w: %q", ErrUnsupportedContentType, in.ContentType)
	}

	storageKey := s.keys.Generate(in.UserID, in.Filename)

	photo := &model.Photo{
		ID:          s.newUUID(),
		UserID:      in.UserID,
		Filename:    in.Filename,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		StorageKey:  storageKey,
		Status:      model.PhotoStatusUploading,
		Tags:        model.Tags{},
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return port.InitiateUploadOutput{}, fmt.Errorf("create photo: %w", err)
	}

	job := &model.UploadJob{
		ID:           s.newUUID(),
		PhotoID:      photo.ID,
		UserID:       in.UserID,
		Status:       model.UploadStatusPending,
		AttemptCount: 0,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return port.InitiateUploadOutput{}, fmt.Errorf("create upload job: %w", err)
	}

	url, err := s.strg.GeneratePresignedUploadURL(ctx, storageKey, in.ContentType, UploadURLTTL)
	if err != nil {
		return port.InitiateUploadOutput{}, fmt.Errorf("presign upload url: %w", err)
	}

	logger.Debugf(ctx, "initiated upload job #%s for photo #%s (key %q)", job.ID, photo.ID, storageKey)

	return port.InitiateUploadOutput{
		UploadJobID:      job.ID,
		PhotoID:          photo.ID,
		UploadURL:        url,
		ExpiresInSeconds: int(UploadURLTTL.Seconds()),
	}, nil
}

// InitiateBatch fans the items out over the shared worker pool and joins on
// all of them. Items fail independently: a slow or failing storage call for
// one file never aborts its siblings, and no result is returned early.
// Result ordering does not follow input ordering.
func (s *uploadInitiatorSrv) InitiateBatch(ctx context.Context, userID uuid.UUID, files []port.FileMetadata) (port.BatchInitiateOutput, error) {
	if len(files) == 0 {
		return port.BatchInitiateOutput{}, ErrEmptyBatch
	}
	if len(files) > MaxBatchSize {
		return port.BatchInitiateOutput{}, fmt.Errorf("%w: %d files (max %d)", ErrBatchTooLarge, len(files), MaxBatchSize)
	}

	results := make(chan port.BatchItemResult, len(files))
	var wg sync.WaitGroup
	for _, f := range files {
		f := f
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			results <- s.initiateItem(ctx, userID, f)
		})
	}
	wg.Wait()
	close(results)

	out := port.BatchInitiateOutput{
		TotalFiles: len(files),
		Results:    make([]port.BatchItemResult, 0, len(files)),
	}
	for res := range results {
		if res.Success {
			out.SuccessfullyInitiated++
		} else {
			out.Failed++
		}
		out.Results = append(out.Results, res)
	}

	logger.Infof(ctx, "batch initiation done: total=%d ok=%d failed=%d", out.TotalFiles, out.SuccessfullyInitiated, out.Failed)
	return out, nil
}

func (s *uploadInitiatorSrv) initiateItem(ctx context.Context, userID uuid.UUID, f port.FileMetadata) port.BatchItemResult {
	single, err := s.InitiateUpload(ctx, port.InitiateUploadInput{
		UserID:      userID,
		Filename:    f.Filename,
		SizeBytes:   f.SizeBytes,
		ContentType: f.ContentType,
	})
	if err != nil {
		logger.Warnf(ctx, "batch item %q failed to initiate: %v", f.Filename, err)
		return port.BatchItemResult{
			Filename:     f.Filename,
			Success:      false,
			ErrorMessage: err.Error(),
		}
	}
	return port.BatchItemResult{
		UploadJobID:      &single.UploadJobID,
		PhotoID:          &single.PhotoID,
		Filename:         f.Filename,
		UploadURL:        single.UploadURL,
		ExpiresInSeconds: single.ExpiresInSeconds,
		Success:          true,
	}
}
