package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeProcessPhoto = "photo:process"
	TypeRetrySweep   = "upload:retry_sweep"
)

type ProcessPhotoPayload struct {
	PhotoID string `json:"photo_id"`
}

// NewProcessPhotoTask creates an Asynq task for post-processing a photo by ID.
// Delivery retries are disabled: the retry scheduler owns re-runs, so a failed
// pipeline run must not be replayed behind its back.
func NewProcessPhotoTask(photoID string) (*asynq.Task, error) {
	p := ProcessPhotoPayload{PhotoID: photoID}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal process-photo payload: %w", err)
	}
	return asynq.NewTask(TypeProcessPhoto, data, asynq.MaxRetry(0)), nil
}

// ParseProcessPhotoPayload parses the task payload to ProcessPhotoPayload.
func ParseProcessPhotoPayload(t *asynq.Task) (ProcessPhotoPayload, error) {
	var p ProcessPhotoPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ProcessPhotoPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}

// NewRetrySweepTask creates the periodic sweep task. The payload is empty; the
// sweep finds its own work in the database.
func NewRetrySweepTask() *asynq.Task {
	return asynq.NewTask(TypeRetrySweep, nil, asynq.MaxRetry(0))
}
