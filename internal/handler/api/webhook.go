package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
)

// StorageEventNotification mirrors the S3-style bucket notification payload
// MinIO posts to webhook targets. Only the object keys are consumed.
type StorageEventNotification struct {
	EventName string `json:"EventName"`
	Records   []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// StorageEventHandler completes upload jobs from bucket notifications instead
// of client status reports. Unknown keys are acknowledged and dropped so the
// provider does not redeliver them forever.
func StorageEventHandler(svc port.StorageEventHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var notif StorageEventNotification
		if err := json.NewDecoder(r.Body).Decode(&notif); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid notification", fmt.Errorf("invalid JSON: %w", err))
			return
		}

		for _, rec := range notif.Records {
			key := rec.S3.Object.Key
			if key == "" {
				continue
			}
			if err := svc.HandleObjectCreated(r.Context(), key); err != nil {
				WriteError(w, statusForError(err), fmt.Sprintf("could not handle storage event for key %q", key), err)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		logger.Infof(r.Context(), "✅  Handled %d storage event record(s)", len(notif.Records))
	}
}
