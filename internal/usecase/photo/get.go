package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rapidphoto/uploader-go/internal/keygen"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// DownloadURLTTL bounds both the presigned download links and the cache
// lifetime of the assembled details payload.
const DownloadURLTTL = 1 * time.Hour

type photoGetterSrv struct {
	photos port.PhotoRepository
	strg   port.Storage
	cache  port.Cache
}

// compile-time check: *photoGetterSrv must satisfy port.PhotoGetter
var _ port.PhotoGetter = (*photoGetterSrv)(nil)

func NewPhotoGetter(photos port.PhotoRepository, strg port.Storage, cache port.Cache) port.PhotoGetter {
	return &photoGetterSrv{photos: photos, strg: strg, cache: cache}
}

// GetPhoto assembles the photo details, serving from cache when a live entry
// exists. Download URLs are only attached once the photo is complete.
func (s *photoGetterSrv) GetPhoto(ctx context.Context, id uuid.UUID) (*port.GetPhotoOutput, error) {
	if cached, err := s.cache.GetPhotoDetails(ctx, id); err != nil {
		logger.Warnf(ctx, "cache lookup for photo #%s failed: %v", id, err)
	} else if cached != nil {
		logger.Debugf(ctx, "serving photo #%s from cache", id)
		return cached, nil
	}

	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("photo #%s: %w", id, port.ErrNotFound)
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}

	out := &port.GetPhotoOutput{
		ID:          photo.ID,
		UserID:      photo.UserID,
		Filename:    photo.Filename,
		ContentType: photo.ContentType,
		SizeBytes:   photo.SizeBytes,
		Status:      photo.Status,
		Tags:        photo.Tags,
		CreatedAt:   photo.CreatedAt,
		UpdatedAt:   photo.UpdatedAt,
	}

	if photo.Status != model.PhotoStatusComplete {
		// no URLs yet, nothing worth caching either
		return out, nil
	}

	url, err := s.strg.GeneratePresignedDownloadURL(ctx, photo.StorageKey, DownloadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign download url: %w", err)
	}
	out.URL = url
	out.ValidUntil = time.Now().Add(DownloadURLTTL)

	thumbKey := keygen.ThumbnailKey(photo.StorageKey)
	thumbURL, err := s.strg.GeneratePresignedDownloadURL(ctx, thumbKey, DownloadURLTTL)
	if err != nil {
		logger.Warnf(ctx, "could not presign thumbnail of photo #%s: %v", id, err)
	} else {
		out.ThumbnailURL = thumbURL
	}

	if err := s.cache.SetPhotoDetails(ctx, id, out); err != nil {
		logger.Warnf(ctx, "could not cache details of photo #%s: %v", id, err)
	}

	return out, nil
}
