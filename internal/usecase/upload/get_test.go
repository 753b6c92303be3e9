package upload

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/rapidphoto/uploader-go/internal/mock"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

func TestGetUploadJob_Success(t *testing.T) {
	record := &model.UploadJob{
		ID:           uuid.NewUUID(),
		PhotoID:      uuid.NewUUID(),
		Status:       model.UploadStatusUploading,
		AttemptCount: 1,
	}
	jobs := &mock.UploadJobRepo{JobRecord: record}
	svc := NewUploadJobGetter(jobs)

	job, err := svc.GetUploadJob(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if job.ID != record.ID || job.Status != record.Status || job.AttemptCount != record.AttemptCount {
		t.Errorf("returned job does not match the stored one: %+v", job)
	}
}

func TestListUploadJobs_ClampsPaging(t *testing.T) {
	userID := uuid.NewUUID()
	jobs := &mock.UploadJobRepo{ListOut: []model.UploadJob{{ID: uuid.NewUUID(), UserID: userID}}}
	svc := NewUploadJobGetter(jobs)

	got, err := svc.ListUploadJobs(context.Background(), userID, -5, -1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 job, got %d", len(got))
	}
	if !jobs.ListCalled || jobs.ListUserID != userID {
		t.Errorf("expected a list for user %q, got %q", userID, jobs.ListUserID)
	}
}

func TestGetUploadJob_NotFound(t *testing.T) {
	jobs := &mock.UploadJobRepo{GetErr: sql.ErrNoRows}
	svc := NewUploadJobGetter(jobs)

	_, err := svc.GetUploadJob(context.Background(), uuid.NewUUID())
	if !errors.Is(err, port.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
