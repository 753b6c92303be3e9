package photo

import (
	"context"
	"fmt"

	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

const maxPageSize = 100

type photoListerSrv struct {
	photos port.PhotoRepository
}

// compile-time check: *photoListerSrv must satisfy port.PhotoLister
var _ port.PhotoLister = (*photoListerSrv)(nil)

func NewPhotoLister(photos port.PhotoRepository) port.PhotoLister {
	return &photoListerSrv{photos: photos}
}

func (s *photoListerSrv) ListPhotos(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Photo, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	photos, err := s.photos.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}
