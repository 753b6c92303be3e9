package mock

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// StatusUpdater implements the status engine for tests of its callers.
type StatusUpdater struct {
	UpdateErr   error
	CompleteErr error
	FailErr     error
	RetryErr    error
	CanRetryOut bool
	CanRetryErr error

	// RetryErrs, when non-empty, is consumed one entry per RetryUpload call.
	RetryErrs []error

	UpdateCalled   bool
	CompleteCalled bool
	FailCalled     bool
	RetryCalled    bool

	CompletedIDs []uuid.UUID
	RetriedIDs   []uuid.UUID
	FailedID     uuid.UUID
	FailedMsg    string
	GotStatus    model.UploadStatus
}

func (m *StatusUpdater) UpdateStatus(ctx context.Context, jobID uuid.UUID, status model.UploadStatus, errorMessage string) error {
	m.UpdateCalled = true
	m.GotStatus = status
	return m.UpdateErr
}

func (m *StatusUpdater) MarkComplete(ctx context.Context, jobID uuid.UUID) error {
	m.CompleteCalled = true
	m.CompletedIDs = append(m.CompletedIDs, jobID)
	return m.CompleteErr
}

func (m *StatusUpdater) MarkFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) error {
	m.FailCalled = true
	m.FailedID = jobID
	m.FailedMsg = errorMessage
	return m.FailErr
}

func (m *StatusUpdater) RetryUpload(ctx context.Context, jobID uuid.UUID) error {
	m.RetryCalled = true
	m.RetriedIDs = append(m.RetriedIDs, jobID)
	if len(m.RetryErrs) > 0 {
		err := m.RetryErrs[0]
		m.RetryErrs = m.RetryErrs[1:]
		return err
	}
	return m.RetryErr
}

func (m *StatusUpdater) CanRetry(ctx context.Context, jobID uuid.UUID) (bool, error) {
	return m.CanRetryOut, m.CanRetryErr
}
