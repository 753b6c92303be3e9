package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rapidphoto/uploader-go/internal/api_context"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/validation"
)

type UpdateStatusRequest struct {
	Status       string `json:"status" validate:"required,oneof=uploading complete failed"`
	ErrorMessage string `json:"error_message" validate:"omitempty,max=2000"`
}

// UpdateStatusHandler drives the upload job state machine from the client
// side: uploaders report uploading/complete/failed after pushing bytes to the
// presigned URL.
func UpdateStatusHandler(svc port.StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := api_context.UploadJobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "upload job ID is required", nil)
			return
		}

		var req UpdateStatusRequest
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

		err := svc.UpdateStatus(r.Context(), jobID, model.UploadStatus(req.Status), req.ErrorMessage)
		if err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not update status of upload job #%s", jobID), err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Upload job #%s moved to status %q", jobID, req.Status)
	}
}

func MarkCompleteHandler(svc port.StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := api_context.UploadJobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "upload job ID is required", nil)
			return
		}

		if err := svc.MarkComplete(r.Context(), jobID); err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not complete upload job #%s", jobID), err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Upload job #%s marked complete", jobID)
	}
}

type MarkFailedRequest struct {
	ErrorMessage string `json:"error_message" validate:"omitempty,max=2000"`
}

func MarkFailedHandler(svc port.StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := api_context.UploadJobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "upload job ID is required", nil)
			return
		}

		var req MarkFailedRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid JSON: %w", err))
				return
			}
		}

		if err := svc.MarkFailed(r.Context(), jobID, req.ErrorMessage); err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not fail upload job #%s", jobID), err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Upload job #%s marked failed", jobID)
	}
}

// RetryUploadHandler re-arms a failed job. Jobs out of retry budget get a 409
// so clients can stop hammering them.
func RetryUploadHandler(svc port.StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := api_context.UploadJobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "upload job ID is required", nil)
			return
		}

		canRetry, err := svc.CanRetry(r.Context(), jobID)
		if err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not check retry budget of upload job #%s", jobID), err)
			return
		}
		if !canRetry {
			WriteError(w, http.StatusConflict, fmt.Sprintf("upload job #%s has exhausted its retry attempts", jobID), nil)
			return
		}

		if err := svc.RetryUpload(r.Context(), jobID); err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not retry upload job #%s", jobID), err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Upload job #%s re-armed for retry", jobID)
	}
}
