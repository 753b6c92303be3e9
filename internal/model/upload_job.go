package model

import (
	"time"

	"github.com/rapidphoto/uploader-go/internal/uuid"
)

type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusComplete  UploadStatus = "complete"
	UploadStatusFailed    UploadStatus = "failed"
)

// UploadJob tracks the delivery of one photo's bytes to storage. Exactly one
// job exists per photo. AttemptCount only ever grows: it is bumped on every
// failure and on every retry.
type UploadJob struct {
	ID           uuid.UUID    `json:"id"`
	PhotoID      uuid.UUID    `json:"photo_id"`
	UserID       uuid.UUID    `json:"user_id"`
	Status       UploadStatus `json:"status"`
	AttemptCount int          `json:"attempt_count"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	Version      int64        `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
