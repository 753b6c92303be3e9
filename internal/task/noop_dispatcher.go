package task

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// NoopDispatcher drops every enqueue. It backs deployments where
// post-processing is switched off.
type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueProcessPhoto(ctx context.Context, id uuid.UUID) error {
	return nil
}
