package mock

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// Dispatcher implements task dispatching for tests.
type Dispatcher struct {
	ProcessCalled bool
	ProcessIDs    []uuid.UUID
	ProcessErr    error
}

func (m *Dispatcher) EnqueueProcessPhoto(ctx context.Context, photoID uuid.UUID) error {
	m.ProcessCalled = true
	m.ProcessIDs = append(m.ProcessIDs, photoID)
	return m.ProcessErr
}
