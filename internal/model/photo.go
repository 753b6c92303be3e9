package model

import (
	"time"

	"github.com/rapidphoto/uploader-go/internal/uuid"
)

type PhotoStatus string

const (
	PhotoStatusUploading  PhotoStatus = "uploading"
	PhotoStatusProcessing PhotoStatus = "processing"
	PhotoStatusComplete   PhotoStatus = "complete"
	PhotoStatusFailed     PhotoStatus = "failed"
)

// Photo is the metadata record for an uploaded picture. StorageKey and UserID
// are set once at creation and never change; SizeBytes is rewritten after
// compression.
type Photo struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Filename    string      `json:"filename"`
	ContentType string      `json:"content_type"`
	SizeBytes   int64       `json:"size_bytes"`
	StorageKey  string      `json:"storage_key"`
	Status      PhotoStatus `json:"status"`
	Tags        Tags        `json:"tags"`
	Version     int64       `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
