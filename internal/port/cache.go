package port

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// Cache provides caching capabilities for photo detail retrieval.
type Cache interface {
	GetPhotoDetails(ctx context.Context, id uuid.UUID) (*GetPhotoOutput, error)
	SetPhotoDetails(ctx context.Context, id uuid.UUID, out *GetPhotoOutput) error
	DeletePhotoDetails(ctx context.Context, id uuid.UUID) error
}
