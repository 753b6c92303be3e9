package api

import (
	"fmt"
	"net/http"

	"github.com/rapidphoto/uploader-go/internal/api_context"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
)

func GetPhotoHandler(svc port.PhotoGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photoID, ok := api_context.PhotoIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "photo ID is required", nil)
			return
		}

		out, err := svc.GetPhoto(r.Context(), photoID)
		if err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not get photo #%s", photoID), err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Successfully returned details for photo #%s", photoID)
	}
}
