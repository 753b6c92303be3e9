package mock

import (
	"context"
	"sync"

	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// UploadJobRepo implements upload-job persistence for tests.
type UploadJobRepo struct {
	mu sync.Mutex

	JobRecord     *model.UploadJob
	ListOut       []model.UploadJob
	ListErr       error
	RetryableOut  []model.UploadJob
	RetryableErr  error
	GetErr        error
	GetByPhotoErr error
	CreateErr     error
	UpdateErr     error

	// UpdateErrs, when non-empty, is consumed one entry per Update call;
	// a nil entry means that call succeeds.
	UpdateErrs []error

	// GetOuts, when non-empty, is consumed one entry per GetByID call and
	// returned instead of JobRecord.
	GetOuts []*model.UploadJob

	GetCalled        bool
	GetByPhotoCalled bool
	ListCalled       bool
	ListUserID       uuid.UUID
	RetryableCalled  bool
	RetryableMax     int
	CreatedAll       []*model.UploadJob
	UpdatedAll       []*model.UploadJob
}

func (m *UploadJobRepo) Create(ctx context.Context, job *model.UploadJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	copied := *job
	m.CreatedAll = append(m.CreatedAll, &copied)
	return nil
}

func (m *UploadJobRepo) Update(ctx context.Context, job *model.UploadJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.UpdateErrs) > 0 {
		err := m.UpdateErrs[0]
		m.UpdateErrs = m.UpdateErrs[1:]
		if err != nil {
			return err
		}
	} else if m.UpdateErr != nil {
		return m.UpdateErr
	}
	copied := *job
	m.UpdatedAll = append(m.UpdatedAll, &copied)
	if m.JobRecord != nil && m.JobRecord.ID == job.ID {
		m.JobRecord = &copied
	}
	return nil
}

func (m *UploadJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.UploadJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if len(m.GetOuts) > 0 {
		copied := *m.GetOuts[0]
		m.GetOuts = m.GetOuts[1:]
		return &copied, nil
	}
	copied := *m.JobRecord
	return &copied, nil
}

func (m *UploadJobRepo) GetByPhotoID(ctx context.Context, photoID uuid.UUID) (*model.UploadJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetByPhotoCalled = true
	if m.GetByPhotoErr != nil {
		return nil, m.GetByPhotoErr
	}
	copied := *m.JobRecord
	return &copied, nil
}

func (m *UploadJobRepo) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.UploadJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalled = true
	m.ListUserID = userID
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

func (m *UploadJobRepo) ListRetryable(ctx context.Context, maxAttempts int) ([]model.UploadJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetryableCalled = true
	m.RetryableMax = maxAttempts
	if m.RetryableErr != nil {
		return nil, m.RetryableErr
	}
	return m.RetryableOut, nil
}

// LastUpdated returns the most recent job passed to Update, or nil.
func (m *UploadJobRepo) LastUpdated() *model.UploadJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.UpdatedAll) == 0 {
		return nil
	}
	return m.UpdatedAll[len(m.UpdatedAll)-1]
}
