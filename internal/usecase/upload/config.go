package upload

import "time"

const (
	// MaxBatchSize is the largest number of files accepted per batch initiation.
	MaxBatchSize = 100
	// MaxRetryAttempts bounds how often a failed upload job may be re-armed.
	MaxRetryAttempts = 3
	// UploadURLTTL is the validity window of presigned upload URLs, enforced
	// by the storage provider.
	UploadURLTTL = 1 * time.Hour

	// CompressionQuality is the lossy re-encoding factor applied to every
	// completed upload, dimensions preserved.
	CompressionQuality = 0.85
	// ThumbnailSize bounds the longest edge of derived thumbnails, in pixels.
	ThumbnailSize = 300

	// The read-after-write consistency wait is a bounded poll against
	// exists(): up to 1 initial try + existsPollRetries retries spaced
	// existsPollInterval apart (~2s worst case).
	existsPollInterval = 500 * time.Millisecond
	existsPollRetries  = 4

	// updateRetries bounds the conditional-update attempts RetryUpload makes
	// before falling back to MarkFailed.
	updateRetries = 2
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func IsContentTypeAllowed(contentType string) bool {
	return allowedContentTypes[contentType]
}
