package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	guuid "github.com/google/uuid"
	"github.com/rapidphoto/uploader-go/internal/api_context"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/usecase/upload"
	"github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/rapidphoto/uploader-go/internal/validation"
)

type InitiateUploadRequest struct {
	UserID      string `json:"user_id" validate:"omitempty,uuid"`
	Filename    string `json:"filename" validate:"required,max=255"`
	SizeBytes   int64  `json:"file_size" validate:"gte=0"`
	ContentType string `json:"content_type" validate:"required,contenttype"`
}

// resolveUserID prefers the authenticated identity; the body field only
// counts when the request came in unauthenticated.
func resolveUserID(r *http.Request, bodyUserID string) (uuid.UUID, error) {
	if id, ok := api_context.AuthUserIDFromContext(r.Context()); ok {
		return id, nil
	}
	if bodyUserID == "" {
		return uuid.UUID{}, fmt.Errorf("user_id is required")
	}
	parsed, err := guuid.Parse(bodyUserID)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid user_id: %w", err)
	}
	return uuid.UUID(parsed), nil
}

func InitiateUploadHandler(svc port.UploadInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InitiateUploadRequest
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

		out, err := svc.InitiateUpload(r.Context(), port.InitiateUploadInput{
			UserID:      userID,
			Filename:    req.Filename,
			SizeBytes:   req.SizeBytes,
			ContentType: req.ContentType,
		})
		if err != nil {
			if errors.Is(err, upload.ErrUnsupportedContentType) {
				WriteError(w, http.StatusBadRequest, "Unsupported content type", err)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not initiate upload", err)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Successfully initiated upload job #%s", out.UploadJobID)
	}
}
