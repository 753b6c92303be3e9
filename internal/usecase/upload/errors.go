package upload

import "errors"

var (
	// ErrEmptyBatch rejects batch initiations carrying no files.
	ErrEmptyBatch = errors.New("upload: batch contains no files")
	// ErrBatchTooLarge rejects batch initiations over MaxBatchSize files.
	ErrBatchTooLarge = errors.New("upload: batch exceeds maximum size")
	// ErrUnsupportedContentType rejects uploads of non-image content types.
	ErrUnsupportedContentType = errors.New("upload: unsupported content type")
)
