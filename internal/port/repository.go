package port

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// PhotoRepository defines persistence operations for photos.
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	Update(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error)
	GetByStorageKey(ctx context.Context, storageKey string) (*model.Photo, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Photo, error)
}

// UploadJobRepository defines persistence operations for upload jobs.
type UploadJobRepository interface {
	Create(ctx context.Context, job *model.UploadJob) error
	Update(ctx context.Context, job *model.UploadJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.UploadJob, error)
	GetByPhotoID(ctx context.Context, photoID uuid.UUID) (*model.UploadJob, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.UploadJob, error)
	ListRetryable(ctx context.Context, maxAttempts int) ([]model.UploadJob, error)
}
