package upload

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rapidphoto/uploader-go/internal/keygen"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/sethvargo/go-retry"
)

type photoProcessorSrv struct {
	photos port.PhotoRepository
	strg   port.Storage
	proc   port.ImageProcessor
	tagger port.Tagger // nil when the tagging capability is absent
	cache  port.Cache

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// compile-time check: *photoProcessorSrv must satisfy port.PhotoProcessor
var _ port.PhotoProcessor = (*photoProcessorSrv)(nil)

// NewPhotoProcessor constructs the post-processing pipeline. Pass a nil
// tagger to disable tagging.
func NewPhotoProcessor(photos port.PhotoRepository, strg port.Storage, proc port.ImageProcessor, tagger port.Tagger, cache port.Cache) port.PhotoProcessor {
	return &photoProcessorSrv{
		photos:   photos,
		strg:     strg,
		proc:     proc,
		tagger:   tagger,
		cache:    cache,
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

// ProcessPhoto runs the full pipeline against one photo: wait out storage
// read-after-write lag, download, compress in place, derive a thumbnail,
// optionally tag, then finalise the photo record. Any step failure collapses
// to Photo.status=failed; nothing already written to storage is rolled back,
// and the upload job is never touched from here.
func (s *photoProcessorSrv) ProcessPhoto(ctx context.Context, photoID uuid.UUID) error {
	if !s.begin(photoID) {
		logger.Warnf(ctx, "photo #%s already being processed, skipping duplicate run", photoID)
		return nil
	}
	defer s.end(photoID)

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("photo #%s: %w", photoID, port.ErrNotFound)
		}
		return err
	}

	photo.Status = model.PhotoStatusProcessing
	if err := s.photos.Update(ctx, photo); err != nil {
		return fmt.Errorf("mark photo #%s processing: %w", photoID, err)
	}

	var finalErr error
	defer func() {
		if finalErr != nil {
			logger.Errorf(ctx, "processing photo #%s failed: %v", photoID, finalErr)
			s.markFailed(photoID)
		}
	}()

	if err := s.waitForObject(ctx, photo.StorageKey); err != nil {
		finalErr = err
		return finalErr
	}

	original, err := s.strg.GetFile(ctx, photo.StorageKey)
	if err != nil {
		finalErr = fmt.Errorf("download %q: %w", photo.StorageKey, err)
		return finalErr
	}
	defer func() { _ = original.Close() }()

	compressed, err := s.proc.Compress(photo.ContentType, original, CompressionQuality)
	if err != nil {
		finalErr = fmt.Errorf("compress %q: %w", photo.StorageKey, err)
		return finalErr
	}

	if err := s.strg.SaveFile(ctx, photo.StorageKey, bytes.NewReader(compressed), int64(len(compressed)), map[string]string{
		"Content-Type": photo.ContentType,
	}); err != nil {
		finalErr = fmt.Errorf("overwrite %q with compressed bytes: %w", photo.StorageKey, err)
		return finalErr
	}

	thumbKey := keygen.ThumbnailKey(photo.StorageKey)
	thumb, err := s.proc.Thumbnail(photo.ContentType, bytes.NewReader(compressed), ThumbnailSize, CompressionQuality)
	if err != nil {
		finalErr = fmt.Errorf("thumbnail %q: %w", photo.StorageKey, err)
		return finalErr
	}
	if err := s.strg.SaveFile(ctx, thumbKey, bytes.NewReader(thumb), int64(len(thumb)), map[string]string{
		"Content-Type": photo.ContentType,
	}); err != nil {
		finalErr = fmt.Errorf("save thumbnail %q: %w", thumbKey, err)
		return finalErr
	}

	if s.tagger != nil {
		tags, err := s.tagger.GenerateTags(ctx, bytes.NewReader(compressed))
		if err != nil {
			finalErr = fmt.Errorf("tag %q: %w", photo.StorageKey, err)
			return finalErr
		}
		photo.Tags = photo.Tags.Union(tags)
	}

	photo.SizeBytes = int64(len(compressed))
	photo.Status = model.PhotoStatusComplete
	if err := s.photos.Update(ctx, photo); err != nil {
		finalErr = fmt.Errorf("finalise photo #%s: %w", photoID, err)
		return finalErr
	}

	if err := s.cache.DeletePhotoDetails(ctx, photo.ID); err != nil {
		logger.Warnf(ctx, "failed deleting cache for photo #%s: %v", photo.ID, err)
	}

	logger.Infof(ctx, "processed photo #%s: compressed to %d bytes, thumbnail %q", photoID, len(compressed), thumbKey)
	return nil
}

// waitForObject polls exists() on a short constant backoff instead of a blind
// fixed sleep, capped at roughly the provider's observed worst-case lag.
func (s *photoProcessorSrv) waitForObject(ctx context.Context, fileKey string) error {
	backoff := retry.WithMaxRetries(existsPollRetries, retry.NewConstant(existsPollInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := s.strg.FileExists(ctx, fileKey)
		if err != nil {
			return err
		}
		if !ok {
			return retry.RetryableError(port.ErrConsistencyTimeout)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, port.ErrConsistencyTimeout) {
			return fmt.Errorf("%w: %q", port.ErrConsistencyTimeout, fileKey)
		}
		return fmt.Errorf("check existence of %q: %w", fileKey, err)
	}
	return nil
}

func (s *photoProcessorSrv) markFailed(photoID uuid.UUID) {
	// refetch: our in-memory copy may be stale by now
	ctx := context.Background()
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		logger.Errorf(ctx, "could not load photo #%s to mark it failed: %v", photoID, err)
		return
	}
	photo.Status = model.PhotoStatusFailed
	if err := s.photos.Update(ctx, photo); err != nil {
		logger.Errorf(ctx, "could not mark photo #%s failed: %v", photoID, err)
	}
	if err := s.cache.DeletePhotoDetails(ctx, photoID); err != nil {
		logger.Warnf(ctx, "failed deleting cache for photo #%s: %v", photoID, err)
	}
}

func (s *photoProcessorSrv) begin(photoID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[photoID]; busy {
		return false
	}
	s.inFlight[photoID] = struct{}{}
	return true
}

func (s *photoProcessorSrv) end(photoID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, photoID)
}
