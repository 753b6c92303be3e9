package mock

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// PhotoProcessor implements the processing pipeline for tests of its callers.
type PhotoProcessor struct {
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *PhotoProcessor) ProcessPhoto(ctx context.Context, photoID uuid.UUID) error {
	m.Called = true
	m.ID = photoID
	return m.Err
}

// RetrySweeper implements the sweep for tests of its callers.
type RetrySweeper struct {
	Out    port.RetrySweepOutput
	Err    error
	Called bool
}

func (m *RetrySweeper) SweepFailedUploads(ctx context.Context) (port.RetrySweepOutput, error) {
	m.Called = true
	return m.Out, m.Err
}
