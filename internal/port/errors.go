package port

import "errors"

var (
	// ErrNotFound is returned when a referenced Photo or UploadJob does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when a caller touches a photo they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrStaleRecord is returned by conditional updates that lost a concurrent write.
	ErrStaleRecord = errors.New("record was modified concurrently")
	// ErrRetryExhausted is returned when a job has used up its retry budget.
	ErrRetryExhausted = errors.New("max retry attempts reached")

	ErrObjectNotFound     = errors.New("storage: object not found")
	ErrBucketNotFound     = errors.New("storage: bucket not found")
	ErrUnauthorized       = errors.New("storage: unauthorized")
	ErrStorageUnavailable = errors.New("storage: unavailable")

	// ErrConsistencyTimeout is returned when an uploaded object is still not
	// visible after the bounded read-after-write poll.
	ErrConsistencyTimeout = errors.New("object not visible after consistency wait")
)
