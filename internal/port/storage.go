package port

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a stored object.
type FileInfo struct {
	SizeBytes   int64
	ContentType string
}

// Part identifies one completed piece of a multipart upload.
type Part struct {
	Number int
	ETag   string
}

// Storage defines the blob-storage gateway. All calls are synchronous; any
// provider failure is a hard failure of the current operation.
type Storage interface {
	GeneratePresignedUploadURL(ctx context.Context, fileKey, contentType string, expiry time.Duration) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, fileKey string, expiry time.Duration) (string, error)
	FileExists(ctx context.Context, fileKey string) (bool, error)
	StatFile(ctx context.Context, fileKey string) (FileInfo, error)
	GetFile(ctx context.Context, fileKey string) (io.ReadSeekCloser, error)
	SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error
	RemoveFile(ctx context.Context, fileKey string) error

	BeginMultipartUpload(ctx context.Context, fileKey, contentType string) (string, error)
	PresignPartURL(ctx context.Context, fileKey, uploadID string, partNumber int, expiry time.Duration) (string, error)
	CompleteMultipartUpload(ctx context.Context, fileKey, uploadID string, parts []Part) error
	AbortMultipartUpload(ctx context.Context, fileKey, uploadID string) error
}
