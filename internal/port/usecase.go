package port

import (
	"context"
	"time"

	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// KeyGenerator derives a collision-resistant storage key for a new upload.
type KeyGenerator interface {
	Generate(userID uuid.UUID, filename string) string
}

// FileMetadata describes one file a client wants to upload.
type FileMetadata struct {
	Filename    string `json:"filename"`
	SizeBytes   int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

// UploadInitiator creates the Photo/UploadJob pair for an upload and hands the
// client a presigned URL to push the bytes directly to storage.
type UploadInitiator interface {
	InitiateUpload(ctx context.Context, in InitiateUploadInput) (InitiateUploadOutput, error)
	InitiateBatch(ctx context.Context, userID uuid.UUID, files []FileMetadata) (BatchInitiateOutput, error)
}
type InitiateUploadInput struct {
	UserID      uuid.UUID
	Filename    string
	SizeBytes   int64
	ContentType string
}
type InitiateUploadOutput struct {
	UploadJobID      uuid.UUID `json:"upload_job_id"`
	PhotoID          uuid.UUID `json:"photo_id"`
	UploadURL        string    `json:"upload_url"`
	ExpiresInSeconds int       `json:"expires_in_seconds"`
}
type BatchItemResult struct {
	UploadJobID      *uuid.UUID `json:"upload_job_id,omitempty"`
	PhotoID          *uuid.UUID `json:"photo_id,omitempty"`
	Filename         string     `json:"filename"`
	UploadURL        string     `json:"upload_url,omitempty"`
	ExpiresInSeconds int        `json:"expires_in_seconds,omitempty"`
	Success          bool       `json:"success"`
	ErrorMessage     string     `json:"error_message,omitempty"`
}
type BatchInitiateOutput struct {
	TotalFiles            int               `json:"total_files"`
	SuccessfullyInitiated int               `json:"successfully_initiated"`
	Failed                int               `json:"failed"`
	Results               []BatchItemResult `json:"results"`
}

// StatusUpdater is the state machine over UploadJob.status. Every transition
// cascades onto the owning Photo in the same logical operation.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, jobID uuid.UUID, status model.UploadStatus, errorMessage string) error
	MarkComplete(ctx context.Context, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) error
	RetryUpload(ctx context.Context, jobID uuid.UUID) error
	CanRetry(ctx context.Context, jobID uuid.UUID) (bool, error)
}

// PhotoProcessor runs the post-upload pipeline: consistency wait, compress,
// thumbnail, optional tagging, metadata update.
type PhotoProcessor interface {
	ProcessPhoto(ctx context.Context, photoID uuid.UUID) error
}

// RetrySweeper reclaims failed upload jobs that still have retry budget.
type RetrySweeper interface {
	SweepFailedUploads(ctx context.Context) (RetrySweepOutput, error)
}
type RetrySweepOutput struct {
	SuccessCount int `json:"success_count"`
	FailCount    int `json:"fail_count"`
}

// StorageEventHandler resolves provider object-created notifications to
// upload-job completions.
type StorageEventHandler interface {
	HandleObjectCreated(ctx context.Context, objectKey string) error
}

// PhotoGetter retrieves photo details plus presigned download URLs.
type PhotoGetter interface {
	GetPhoto(ctx context.Context, id uuid.UUID) (*GetPhotoOutput, error)
}
type GetPhotoOutput struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Filename     string            `json:"filename"`
	ContentType  string            `json:"content_type"`
	SizeBytes    int64             `json:"size_bytes"`
	Status       model.PhotoStatus `json:"status"`
	Tags         model.Tags        `json:"tags"`
	URL          string            `json:"url"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
	ValidUntil   time.Time         `json:"valid_until"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// PhotoLister lists a user's photos, newest first.
type PhotoLister interface {
	ListPhotos(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Photo, error)
}

// TagEditor mutates a photo's tag set on behalf of its owner.
type TagEditor interface {
	ReplaceTags(ctx context.Context, photoID, userID uuid.UUID, tags []string) (*model.Photo, error)
	AddTag(ctx context.Context, photoID, userID uuid.UUID, tag string) (*model.Photo, error)
	RemoveTag(ctx context.Context, photoID, userID uuid.UUID, tag string) (*model.Photo, error)
}

// UploadJobGetter retrieves upload job state, by id or per user.
type UploadJobGetter interface {
	GetUploadJob(ctx context.Context, id uuid.UUID) (*model.UploadJob, error)
	ListUploadJobs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.UploadJob, error)
}
