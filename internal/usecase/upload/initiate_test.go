package upload

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	guuid "github.com/google/uuid"
	"github.com/rapidphoto/uploader-go/internal/mock"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/rapidphoto/uploader-go/internal/workerpool"
)

func newTestInitiator(photos *mock.PhotoRepo, jobs *mock.UploadJobRepo, strg *mock.Storage) (port.UploadInitiator, *workerpool.Pool) {
	pool := workerpool.New(4, 128)
	svc := NewUploadInitiator(photos, jobs, strg, &mock.KeyGen{}, pool, uuid.NewUUID)
	return svc, pool
}

func TestInitiateUpload_Success(t *testing.T) {
	photos := &mock.PhotoRepo{}
	jobs := &mock.UploadJobRepo{}
	strg := &mock.Storage{}
	svc, pool := newTestInitiator(photos, jobs, strg)
	defer pool.Shutdown()

	userID := uuid.NewUUID()
	out, err := svc.InitiateUpload(context.Background(), port.InitiateUploadInput{
		UserID:      userID,
		Filename:    "x.jpg",
		SizeBytes:   1024000,
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(photos.CreatedAll) != 1 {
		t.Fatalf("expected 1 photo created, got %d", len(photos.CreatedAll))
	}
	photo := photos.CreatedAll[0]
	if photo.Status != model.PhotoStatusUploading {
		t.Errorf("expected photo status %q, got %q", model.PhotoStatusUploading, photo.Status)
	}
	if photo.UserID != userID {
		t.Errorf("expected photo user %q, got %q", userID, photo.UserID)
	}
	if !strings.Contains(photo.StorageKey, "x.jpg") {
		t.Errorf("storage key %q should contain the filename", photo.StorageKey)
	}
	if photo.SizeBytes != 1024000 {
		t.Errorf("expected size 1024000, got %d", photo.SizeBytes)
	}

	if len(jobs.CreatedAll) != 1 {
		t.Fatalf("expected 1 job created, got %d", len(jobs.CreatedAll))
	}
	job := jobs.CreatedAll[0]
	if job.Status != model.UploadStatusPending {
		t.Errorf("expected job status %q, got %q", model.UploadStatusPending, job.Status)
	}
	if job.AttemptCount != 0 {
		t.Errorf("expected attempt count 0, got %d", job.AttemptCount)
	}
	if job.PhotoID != photo.ID {
		t.Errorf("job photo id %q does not match photo %q", job.PhotoID, photo.ID)
	}
	if job.UserID != userID {
		t.Errorf("job user %q does not match %q", job.UserID, userID)
	}

	if out.PhotoID != photo.ID || out.UploadJobID != job.ID {
		t.Errorf("output ids do not match created records: %+v", out)
	}
	if out.UploadURL == "" {
		t.Error("expected a signed upload URL")
	}
	if out.ExpiresInSeconds != int(time.Hour.Seconds()) {
		t.Errorf("expected expiry %d seconds, got %d", int(time.Hour.Seconds()), out.ExpiresInSeconds)
	}
	if strg.TTL != UploadURLTTL {
		t.Errorf("storage presign called with TTL %v, want %v", strg.TTL, UploadURLTTL)
	}
}

func TestInitiateUpload_UnsupportedContentType(t *testing.T) {
	photos := &mock.PhotoRepo{}
	jobs := &mock.UploadJobRepo{}
	strg := &mock.Storage{}
	svc, pool := newTestInitiator(photos, jobs, strg)
	defer pool.Shutdown()

	_, err := svc.InitiateUpload(context.Background(), port.InitiateUploadInput{
		UserID:      uuid.NewUUID(),
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
	})
	if !errors.Is(err, ErrUnsupportedContentType) {
		t.Fatalf("expected ErrUnsupportedContentType, got %v", err)
	}
	if len(photos.CreatedAll) != 0 {
		t.Error("no photo should be created for a rejected content type")
	}
}

func TestInitiateUpload_RepoError(t *testing.T) {
	photos := &mock.PhotoRepo{CreateErr: errors.New("db down")}
	jobs := &mock.UploadJobRepo{}
	strg := &mock.Storage{}
	svc, pool := newTestInitiator(photos, jobs, strg)
	defer pool.Shutdown()

	_, err := svc.InitiateUpload(context.Background(), port.InitiateUploadInput{
		UserID:      uuid.NewUUID(),
		Filename:    "x.jpg",
		ContentType: "image/jpeg",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if strg.GenerateUploadLinkCalled {
		t.Error("did not expect presigning after a repository failure")
	}
}

func TestInitiateUpload_StorageError(t *testing.T) {
	photos := &mock.PhotoRepo{}
	jobs := &mock.UploadJobRepo{}
	strg := &mock.Storage{GenerateUploadLinkErr: errors.New("minio down")}
	svc, pool := newTestInitiator(photos, jobs, strg)
	defer pool.Shutdown()

	_, err := svc.InitiateUpload(context.Background(), port.InitiateUploadInput{
		UserID:      uuid.NewUUID(),
		Filename:    "x.jpg",
		ContentType: "image/jpeg",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// the pair may already be persisted: the caller must treat this as
	// "retry initiation", not "nothing happened"
	if len(photos.CreatedAll) != 1 || len(jobs.CreatedAll) != 1 {
		t.Errorf("expected the pair to have been created before presigning failed")
	}
}

func TestInitiateBatch_Isolation(t *testing.T) {
	photos := &mock.PhotoRepo{}
	jobs := &mock.UploadJobRepo{}
	strg := &mock.Storage{FailUploadURLForKeySubstr: "broken.jpg"}
	svc, pool := newTestInitiator(photos, jobs, strg)
	defer pool.Shutdown()

	files := []port.FileMetadata{
		{Filename: "a.jpg", SizeBytes: 100, ContentType: "image/jpeg"},
		{Filename: "b.jpg", SizeBytes: 200, ContentType: "image/jpeg"},
		{Filename: "broken.jpg", SizeBytes: 300, ContentType: "image/jpeg"},
		{Filename: "c.png", SizeBytes: 400, ContentType: "image/png"},
		{Filename: "d.png", SizeBytes: 500, ContentType: "image/png"},
	}
	out, err := svc.InitiateBatch(context.Background(), uuid.NewUUID(), files)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out.TotalFiles != 5 {
		t.Errorf("expected total 5, got %d", out.TotalFiles)
	}
	if out.SuccessfullyInitiated != 4 {
		t.Errorf("expected 4 successes, got %d", out.SuccessfullyInitiated)
	}
	if out.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", out.Failed)
	}
	if len(out.Results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(out.Results))
	}

	urls := make(map[string]bool)
	for _, res := range out.Results {
		if res.Filename == "broken.jpg" {
			if res.Success {
				t.Error("broken item should have failed")
			}
			if res.ErrorMessage == "" {
				t.Error("failed item should carry an error message")
			}
			if res.UploadURL != "" {
				t.Error("failed item should not carry a URL")
			}
			continue
		}
		if !res.Success {
			t.Errorf("item %q should have succeeded: %s", res.Filename, res.ErrorMessage)
			continue
		}
		if res.UploadJobID == nil || res.PhotoID == nil {
			t.Errorf("item %q is missing its ids", res.Filename)
		}
		if res.UploadURL == "" {
			t.Errorf("item %q is missing its signed URL", res.Filename)
		}
		if urls[res.UploadURL] {
			t.Errorf("signed URL %q was issued twice", res.UploadURL)
		}
		urls[res.UploadURL] = true
	}
}

func TestInitiateBatch_Empty(t *testing.T) {
	svc, pool := newTestInitiator(&mock.PhotoRepo{}, &mock.UploadJobRepo{}, &mock.Storage{})
	defer pool.Shutdown()

	_, err := svc.InitiateBatch(context.Background(), uuid.NewUUID(), nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestInitiateBatch_TooLarge(t *testing.T) {
	photos := &mock.PhotoRepo{}
	svc, pool := newTestInitiator(photos, &mock.UploadJobRepo{}, &mock.Storage{})
	defer pool.Shutdown()

	files := make([]port.FileMetadata, MaxBatchSize+1)
	for i := range files {
		files[i] = port.FileMetadata{Filename: "f.jpg", ContentType: "image/jpeg"}
	}
	_, err := svc.InitiateBatch(context.Background(), uuid.NewUUID(), files)
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
	if len(photos.CreatedAll) != 0 {
		t.Error("an oversized batch must be rejected before any side effect")
	}
}

func TestInitiateBatch_AllItemsProcessed(t *testing.T) {
	photos := &mock.PhotoRepo{}
	jobs := &mock.UploadJobRepo{}
	strg := &mock.Storage{}
	svc, pool := newTestInitiator(photos, jobs, strg)
	defer pool.Shutdown()

	files := make([]port.FileMetadata, 40)
	for i := range files {
		files[i] = port.FileMetadata{Filename: guuid.NewString() + ".jpg", SizeBytes: 1, ContentType: "image/jpeg"}
	}
	out, err := svc.InitiateBatch(context.Background(), uuid.NewUUID(), files)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.SuccessfullyInitiated != 40 || out.Failed != 0 {
		t.Errorf("expected 40/0, got %d/%d", out.SuccessfullyInitiated, out.Failed)
	}
	if len(photos.CreatedAll) != 40 || len(jobs.CreatedAll) != 40 {
		t.Errorf("expected 40 photos and jobs, got %d/%d", len(photos.CreatedAll), len(jobs.CreatedAll))
	}
}
