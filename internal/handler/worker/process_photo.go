package worker

import (
	"context"

	guuid "github.com/google/uuid"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/task"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// ProcessPhotoHandler handles a process-photo task. It converts the incoming
// task payload to the ID expected by the PhotoProcessor service and delegates
// the call.
func ProcessPhotoHandler(ctx context.Context, p task.ProcessPhotoPayload, svc port.PhotoProcessor) error {
	id, err := guuid.Parse(p.PhotoID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid photo ID %q: %v", p.PhotoID, err)
		return err
	}

	if err := svc.ProcessPhoto(ctx, uuid.UUID(id)); err != nil {
		logger.Errorf(ctx, "❌  Failed to process photo #%s: %v", id, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully processed photo #%s", id)
	return nil
}
