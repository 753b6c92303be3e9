package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rapidphoto/uploader-go/internal/api_context"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/rapidphoto/uploader-go/internal/validation"
)

type ReplaceTagsRequest struct {
	Tags []string `json:"tags" validate:"required,max=50,dive,required,max=100"`
}

type TagRequest struct {
	Tag string `json:"tag" validate:"required,max=100"`
}

func requireTagOwner(w http.ResponseWriter, r *http.Request) (photoID, userID uuid.UUID, ok bool) {
	photoID, found := api_context.PhotoIDFromContext(r.Context())
	if !found {
		WriteError(w, http.StatusBadRequest, "photo ID is required", nil)
		return photoID, userID, false
	}
	userID, found = api_context.AuthUserIDFromContext(r.Context())
	if !found {
		WriteError(w, http.StatusUnauthorized, "authentication is required to edit tags", nil)
		return photoID, userID, false
	}
	return photoID, userID, true
}

func ReplaceTagsHandler(svc port.TagEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photoID, userID, ok := requireTagOwner(w, r)
		if !ok {
			return
		}

		var req ReplaceTagsRequest
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
			return
		}

		photo, err := svc.ReplaceTags(r.Context(), photoID, userID, req.Tags)
		if err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not replace tags of photo #%s", photoID), err)
			return
		}

		RespondJSON(w, http.StatusOK, photo)
		logger.Infof(r.Context(), "✅  Replaced tags of photo #%s", photoID)
	}
}

func AddTagHandler(svc port.TagEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photoID, userID, ok := requireTagOwner(w, r)
		if !ok {
			return
		}

		var req TagRequest
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
			return
		}

		photo, err := svc.AddTag(r.Context(), photoID, userID, req.Tag)
		if err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not add tag to photo #%s", photoID), err)
			return
		}

		RespondJSON(w, http.StatusOK, photo)
		logger.Infof(r.Context(), "✅  Added tag %q to photo #%s", req.Tag, photoID)
	}
}

func RemoveTagHandler(svc port.TagEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photoID, userID, ok := requireTagOwner(w, r)
		if !ok {
			return
		}

		tag := r.URL.Query().Get("tag")
		if tag == "" {
			WriteError(w, http.StatusBadRequest, "tag is required", nil)
			return
		}

		photo, err := svc.RemoveTag(r.Context(), photoID, userID, tag)
		if err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not remove tag from photo #%s", photoID), err)
			return
		}

		RespondJSON(w, http.StatusOK, photo)
		logger.Infof(r.Context(), "✅  Removed tag %q from photo #%s", tag, photoID)
	}
}
