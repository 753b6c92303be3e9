package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	tagUpdateRetries  = 2
	tagUpdateInterval = 100 * time.Millisecond
)

type tagEditorSrv struct {
	photos port.PhotoRepository
	cache  port.Cache
}

// compile-time check: *tagEditorSrv must satisfy port.TagEditor
var _ port.TagEditor = (*tagEditorSrv)(nil)

func NewTagEditor(photos port.PhotoRepository, cache port.Cache) port.TagEditor {
	return &tagEditorSrv{photos: photos, cache: cache}
}

func (s *tagEditorSrv) ReplaceTags(ctx context.Context, photoID, userID uuid.UUID, tags []string) (*model.Photo, error) {
	return s.mutate(ctx, photoID, userID, func(photo *model.Photo) {
		photo.Tags = model.Tags{}.Union(tags)
	})
}

func (s *tagEditorSrv) AddTag(ctx context.Context, photoID, userID uuid.UUID, tag string) (*model.Photo, error) {
	return s.mutate(ctx, photoID, userID, func(photo *model.Photo) {
		photo.Tags = photo.Tags.Union([]string{tag})
	})
}

func (s *tagEditorSrv) RemoveTag(ctx context.Context, photoID, userID uuid.UUID, tag string) (*model.Photo, error) {
	return s.mutate(ctx, photoID, userID, func(photo *model.Photo) {
		photo.Tags = photo.Tags.Without(tag)
	})
}

// mutate runs apply against a fresh copy of the photo and writes it back,
// re-reading on a lost concurrent write. Only the owner may edit tags.
func (s *tagEditorSrv) mutate(ctx context.Context, photoID, userID uuid.UUID, apply func(*model.Photo)) (*model.Photo, error) {
	photo, err := s.getOwned(ctx, photoID, userID)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(tagUpdateRetries, retry.NewConstant(tagUpdateInterval))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		apply(photo)
		if err := s.photos.Update(ctx, photo); err != nil {
			if errors.Is(err, port.ErrStaleRecord) {
				if fresh, ferr := s.getOwned(ctx, photoID, userID); ferr == nil {
					photo = fresh
				}
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update tags of photo #%s: %w", photoID, err)
	}

	if err := s.cache.DeletePhotoDetails(ctx, photoID); err != nil {
		logger.Warnf(ctx, "failed deleting cache for photo #%s: %v", photoID, err)
	}

	logger.Infof(ctx, "tags of photo #%s updated to %v", photoID, photo.Tags)
	return photo, nil
}

func (s *tagEditorSrv) getOwned(ctx context.Context, photoID, userID uuid.UUID) (*model.Photo, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("photo #%s: %w", photoID, port.ErrNotFound)
		}
		return nil, err
	}
	if photo.UserID != userID {
		return nil, fmt.Errorf("photo #%s does not belong to user #%s: %w", photoID, userID, port.ErrForbidden)
	}
	return photo, nil
}
