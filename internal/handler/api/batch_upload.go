package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/usecase/upload"
	"github.com/rapidphoto/uploader-go/internal/validation"
)

type BatchUploadRequest struct {
	UserID string          `json:"user_id" validate:"omitempty,uuid"`
	Files  []BatchFileItem `json:"files" validate:"required,min=1,max=100,dive"`
}

type BatchFileItem struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	SizeBytes   int64  `json:"file_size" validate:"gte=0"`
	ContentType string `json:"content_type" validate:"required"`
}

func BatchUploadHandler(svc port.UploadInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BatchUploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid JSON: %w", err))
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "Validation error (could not encode details)", fmt.Errorf("encoding validation errors: %w", err))
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		userID, err := resolveUserID(r, req.UserID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}

		files := make([]port.FileMetadata, 0, len(req.Files))
		for _, f := range req.Files {
			files = append(files, port.FileMetadata{
				Filename:    f.Filename,
				SizeBytes:   f.SizeBytes,
				ContentType: f.ContentType,
			})
		}

		out, err := svc.InitiateBatch(r.Context(), userID, files)
		if err != nil {
			if errors.Is(err, upload.ErrEmptyBatch) || errors.Is(err, upload.ErrBatchTooLarge) {
				WriteError(w, http.StatusBadRequest, "Invalid batch", err)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not initiate batch upload", err)
			return
		}

		// per-item failures still yield a 200: the batch itself succeeded
		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Batch initiation finished: %d ok, %d failed", out.SuccessfullyInitiated, out.Failed)
	}
}
