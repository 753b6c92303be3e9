package port

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// TaskDispatcher enqueues asynchronous tasks related to photo processing.
// Enqueue returns once the task has been durably submitted to the queue.
type TaskDispatcher interface {
	EnqueueProcessPhoto(ctx context.Context, photoID uuid.UUID) error
}
