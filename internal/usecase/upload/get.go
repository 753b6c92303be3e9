package upload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

const maxJobPageSize = 100

type uploadJobGetterSrv struct {
	jobs port.UploadJobRepository
}

// compile-time check: *uploadJobGetterSrv must satisfy port.UploadJobGetter
var _ port.UploadJobGetter = (*uploadJobGetterSrv)(nil)

func NewUploadJobGetter(jobs port.UploadJobRepository) port.UploadJobGetter {
	return &uploadJobGetterSrv{jobs: jobs}
}

func (s *uploadJobGetterSrv) GetUploadJob(ctx context.Context, id uuid.UUID) (*model.UploadJob, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("upload job #%s: %w", id, port.ErrNotFound)
		}
		return nil, err
	}
	return job, nil
}

func (s *uploadJobGetterSrv) ListUploadJobs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.UploadJob, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxJobPageSize {
		limit = maxJobPageSize
	}
	if offset < 0 {
		offset = 0
	}

	jobs, err := s.jobs.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list upload jobs: %w", err)
	}
	return jobs, nil
}
