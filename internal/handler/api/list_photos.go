package api

import (
	"fmt"
	"net/http"
	"strconv"

	guuid "github.com/google/uuid"
	"github.com/rapidphoto/uploader-go/internal/api_context"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

type ListPhotosResponse struct {
	Photos []model.Photo `json:"photos"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ListPhotosHandler lists the authenticated user's photos. Without auth the
// user is taken from the user_id query parameter.
func ListPhotosHandler(svc port.PhotoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			raw := r.URL.Query().Get("user_id")
			if raw == "" {
				WriteError(w, http.StatusBadRequest, "user_id is required", nil)
				return
			}
			parsed, err := guuid.Parse(raw)
			if err != nil {
				WriteError(w, http.StatusBadRequest, fmt.Sprintf("user_id %q is not a valid UUID", raw), nil)
				return
			}
			userID = uuid.UUID(parsed)
		}

		limit := intQueryParam(r, "limit", 20)
		offset := intQueryParam(r, "offset", 0)

		photos, err := svc.ListPhotos(r.Context(), userID, limit, offset)
		if err != nil {
			WriteError(w, statusForError(err), "could not list photos", err)
			return
		}

		RespondJSON(w, http.StatusOK, ListPhotosResponse{Photos: photos, Limit: limit, Offset: offset})
		logger.Infof(r.Context(), "✅  Returned %d photos for user #%s", len(photos), userID)
	}
}

func intQueryParam(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
