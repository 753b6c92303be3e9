package mock

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// Cache implements photo-details caching for tests.
type Cache struct {
	DetailsOut *port.GetPhotoOutput
	GetErr     error
	SetErr     error
	DeleteErr  error

	GetCalled    bool
	SetCalled    bool
	DeleteCalled bool
	SetInput     *port.GetPhotoOutput
	DeletedIDs   []uuid.UUID
}

func (m *Cache) GetPhotoDetails(ctx context.Context, id uuid.UUID) (*port.GetPhotoOutput, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.DetailsOut, nil
}

func (m *Cache) SetPhotoDetails(ctx context.Context, id uuid.UUID, out *port.GetPhotoOutput) error {
	m.SetCalled = true
	m.SetInput = out
	return m.SetErr
}

func (m *Cache) DeletePhotoDetails(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalled = true
	m.DeletedIDs = append(m.DeletedIDs, id)
	return m.DeleteErr
}
