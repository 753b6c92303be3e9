package cache

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetPhotoDetails(ctx context.Context, id uuid.UUID) (*port.GetPhotoOutput, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) SetPhotoDetails(ctx context.Context, id uuid.UUID, out *port.GetPhotoOutput) error {
	return nil
}

func (n *NoopCache) DeletePhotoDetails(ctx context.Context, id uuid.UUID) error { return nil }
